package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/localeshell/locale"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type localeParams struct {
	Name string `json:"name,omitempty" jsonschema:"symbolic locale name to switch to, e.g. italian. Omit to show the current locale."`
}

func (h *handler) localeHandler(ctx context.Context, req *mcp.CallToolRequest, params localeParams) (*mcp.CallToolResult, any, error) {
	if params.Name != "" {
		if err := h.shell.SetLocale(params.Name); err != nil {
			return errorResult(fmt.Sprintf("%v\n\n%s", err, formatLocales(h.shell.Locale())))
		}
	}
	return textResult(h.formatCurrent())
}

func (h *handler) formatCurrent() string {
	var b strings.Builder
	name, value := h.shell.LocaleEnv()
	fmt.Fprintf(&b, "Locale: %s (%s=%s)\n\n", h.shell.Locale(), name, value)
	b.WriteString(formatLocales(h.shell.Locale()))
	return b.String()
}

func formatLocales(current locale.Locale) string {
	var b strings.Builder
	fmt.Fprintln(&b, "Supported locales:")
	for _, l := range locale.All() {
		marker := " "
		if l == current {
			marker = "*"
		}
		fmt.Fprintf(&b, "  %s %-10s %s\n", marker, l, l.Tag())
	}
	return b.String()
}
