package core

import (
	"io"

	"github.com/hashicorp/hcl2/hcl"
	"github.com/rampart/rampart/config"
)

// A DiagnosticsError is returned when the configuration contains errors.
type DiagnosticsError struct {
	hcl.Diagnostics
	loader *config.Loader
}

// PrintDiagnostics writes the diagnostics to w as human readable text, with
// source context from the loaded configuration files.
func (e *DiagnosticsError) PrintDiagnostics(w io.Writer) {
	e.loader.WriteDiagnostics(w, e.Diagnostics)
}

func (a *App) errDiagnostics(diags hcl.Diagnostics) *DiagnosticsError {
	return &DiagnosticsError{Diagnostics: diags, loader: &a.loader}
}
