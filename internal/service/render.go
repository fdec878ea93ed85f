// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"newsdesk/internal/model"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
	ugcPolicy    *bluemonday.Policy
)

func initRenderer() {
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	ugcPolicy = bluemonday.UGCPolicy()
	ugcPolicy.AllowAttrs("class").OnElements("code", "pre")
}

// RenderBody converts an article body to sanitized HTML for public display.
// Markdown bodies are rendered first; HTML bodies are sanitized as-is.
func RenderBody(body, format string) (string, error) {
	markdownOnce.Do(initRenderer)

	if format == model.BodyFormatMarkdown {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(body), &buf); err != nil {
			return "", fmt.Errorf("rendering markdown: %w", err)
		}
		return ugcPolicy.Sanitize(buf.String()), nil
	}
	return ugcPolicy.Sanitize(body), nil
}
