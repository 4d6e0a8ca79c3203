package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "go-partial/internal/generator")

	specs := []fixtureSpec{
		{Name: "maxarity", Arity: 62},
	}

	for _, spec := range specs {
		cfg := spec.config()
		dir := fmt.Sprintf("../../pkg/partial/testdata/%s", spec.Name)

		assertNoError(os.MkdirAll(dir, 0755), "for fixture \"%s\"", spec.Name)

		assertNoError(bgen.Generate(cfg, spec.Name, "templates",
			bavard.Entry{
				File:      filepath.Join(dir, "target.go"),
				Templates: []string{"target.go.tmpl"},
			},
		), "for fixture \"%s\"", spec.Name)

		// The input fixture is written directly, since invocation syntax is
		// not valid Go and cannot pass through gofmt.
		assertNoError(writeFixture(cfg, filepath.Join(dir, spec.Name+".gop")),
			"for fixture \"%s\"", spec.Name)
	}

	// run gofmt on generated targets
	runCmd("gofmt", "-w", "../../pkg/partial/testdata/")
}

type fixtureSpec struct {
	Name  string
	Arity int
}

type fixtureConfig struct {
	fixtureSpec
	// Rendered "p0, ..., pN" parameter names
	ParamList string
	// Rendered "struct{}, ..., struct{}" type list
	TypeList string
	// Rendered "_, ..., _" slot list
	SlotList string
}

func (f fixtureSpec) config() *fixtureConfig {
	var (
		params = make([]string, f.Arity)
		types  = make([]string, f.Arity)
		slots  = make([]string, f.Arity)
	)

	for i := range f.Arity {
		params[i] = fmt.Sprintf("p%d", i)
		types[i] = "struct{}"
		slots[i] = "_"
	}

	return &fixtureConfig{
		fixtureSpec: f,
		ParamList:   strings.Join(params, ", "),
		TypeList:    strings.Join(types, ", "),
		SlotList:    strings.Join(slots, ", "),
	}
}

func writeFixture(cfg *fixtureConfig, filename string) error {
	tmpl, err := template.ParseFiles("templates/fixture.gop.tmpl")
	if err != nil {
		return err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(buf.String()), 0644)
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "")
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}
