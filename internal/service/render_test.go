// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"strings"
	"testing"

	"newsdesk/internal/model"
)

func TestRenderBodyMarkdown(t *testing.T) {
	got, err := RenderBody("# Heading\n\nSome **bold** and *italic* text.", model.BodyFormatMarkdown)
	if err != nil {
		t.Fatalf("RenderBody: %v", err)
	}
	for _, want := range []string{"<h1", "Heading", "<strong>bold</strong>", "<em>italic</em>"} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderBodyStripsScripts(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		format string
	}{
		{"html script tag", `<p>ok</p><script>alert(1)</script>`, model.BodyFormatHTML},
		{"html event handler", `<img src="x" onerror="alert(1)">`, model.BodyFormatHTML},
		{"markdown raw html", "text\n\n<script>alert(1)</script>", model.BodyFormatMarkdown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderBody(tt.body, tt.format)
			if err != nil {
				t.Fatalf("RenderBody: %v", err)
			}
			if strings.Contains(got, "<script") || strings.Contains(got, "onerror") {
				t.Errorf("sanitizer let unsafe markup through:\n%s", got)
			}
		})
	}
}

func TestRenderBodyKeepsCodeClasses(t *testing.T) {
	got, err := RenderBody("```go\nfmt.Println(\"hi\")\n```", model.BodyFormatMarkdown)
	if err != nil {
		t.Fatalf("RenderBody: %v", err)
	}
	if !strings.Contains(got, `class="language-go"`) {
		t.Errorf("fenced code block lost its language class:\n%s", got)
	}
}
