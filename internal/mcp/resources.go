package mcp

import (
	"fmt"
	"strings"

	"vidscribe/internal/catalog"
)

type resourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

type readParams struct {
	URI string `json:"uri"`
}

func (d *Dispatcher) listResources(req Request) Response {
	resources, err := catalog.List(d.outputDir)
	if err != nil {
		return NewError(req.ID, CodeExecutionFailed, fmt.Sprintf("Failed to list resources: %v", err))
	}
	out := make([]resourceDescriptor, 0, len(resources))
	for _, r := range resources {
		out = append(out, resourceDescriptor{URI: r.URI, Name: r.Name, Description: r.Description, MimeType: r.MimeType})
	}
	return NewResult(req.ID, map[string]any{"resources": out})
}

func (d *Dispatcher) readResource(req Request) Response {
	var params readParams
	if err := decodeParams(req.Params, &params); err != nil {
		return NewError(req.ID, CodeInvalidRequest, fmt.Sprintf("Invalid params: %v", err))
	}
	if strings.TrimSpace(params.URI) == "" {
		return NewError(req.ID, CodeInvalidRequest, "Missing 'uri' parameter")
	}
	content, err := catalog.Read(params.URI)
	if err != nil {
		return NewError(req.ID, CodeExecutionFailed, err.Error())
	}
	return NewResult(req.ID, map[string]any{
		"contents": []resourceContent{{URI: content.URI, MimeType: content.MimeType, Text: content.Text}},
	})
}
