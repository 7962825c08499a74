// Command resourcedoc generates markdown reference documentation for the
// resources declared in a provider package.
//
//   resourcedoc provider/sigsci > docs/sigsci.md
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/tools/resourcedoc/resourcedoc"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:   "resourcedoc <package dir>",
	Short: "Generate resource reference docs for a provider package",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out := os.Stdout
		if name, _ := cmd.Flags().GetString("output"); name != "" {
			f, err := os.Create(name)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}
		if err := run(args[0], out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func main() {
	cmd.Flags().StringP("output", "o", "", "Output file. Defaults to stdout.")
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dir string, w io.Writer) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return errors.WithStack(err)
	}

	var resources []resourcedoc.Resource
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			return errors.WithStack(err)
		}
		rr, err := resourcedoc.Parse(f)
		_ = f.Close()
		if err != nil {
			return errors.Wrap(err, name)
		}
		resources = append(resources, rr...)
	}

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].Type < resources[j].Type
	})

	return tmpl.Execute(w, resources)
}

var tmpl = template.Must(template.New("doc").Funcs(template.FuncMap{
	// oneline collapses a doc comment to a single line for table cells.
	"oneline": func(s string) string { return strings.Join(strings.Fields(s), " ") },
}).Parse(`{{range .}}# {{if .Type}}{{.Type}}{{else}}{{.Struct}}{{end}}

{{.Doc}}
{{if .Inputs}}
## Inputs

| Name | Type | Required | Description |
| --- | --- | --- | --- |
{{range .Inputs}}| {{.Name}}{{if .Secret}} (secret){{end}} | {{.Type}} | {{if .Required}}yes{{else}}no{{end}} | {{oneline .Doc}} |
{{end}}{{end}}{{if .Outputs}}
## Outputs

| Name | Type | Description |
| --- | --- | --- |
{{range .Outputs}}| {{.Name}} | {{.Type}} | {{oneline .Doc}} |
{{end}}{{end}}
{{end}}`))
