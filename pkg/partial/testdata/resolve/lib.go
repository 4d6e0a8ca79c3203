package resolve

func add(x, y int) int {
	return x + y
}

func report(x int) (string, error) {
	return "", nil
}

func sum(xs ...int) int {
	total := 0
	//
	for _, x := range xs {
		total += x
	}
	//
	return total
}

func lookup(m map[string]int, k string) int {
	return m[k]
}

type pair struct {
	x int
}

func (p pair) plus(y int) int {
	return p.x + y
}

var offset = 10
