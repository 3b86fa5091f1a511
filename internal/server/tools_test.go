package server

import (
	"testing"
)

var expectedTools = []string{
	"pgm_info",
	"pgm_label",
	"pgm_threshold",
	"pgm_properties",
	"pgm_recognize",
	"pgm_edges",
	"pgm_hough_lines",
	"pgm_sphere",
	"pgm_albedo",
	"pgm_preview",
}

func toolMap() map[string]Tool {
	m := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		m[tool.Name] = tool
	}
	return m
}

func TestGetToolDefinitions(t *testing.T) {
	tools := toolMap()

	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}
	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description should not be empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("properties should be a map")
			}

			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required parameter %s is not a property", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	for name, tool := range toolMap() {
		if name == "pgm_albedo" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			required, _ := tool.InputSchema["required"].([]string)
			hasPath := false
			for _, r := range required {
				if r == "path" {
					hasPath = true
					break
				}
			}
			if !hasPath {
				t.Error("Tool should require 'path' parameter")
			}
		})
	}
}

func TestToolDefinitions_Albedo(t *testing.T) {
	tool := toolMap()["pgm_albedo"]
	required, _ := tool.InputSchema["required"].([]string)
	if len(required) != 2 || required[0] != "lights" || required[1] != "images" {
		t.Errorf("required: got %v, want [lights images]", required)
	}
}

func TestToolDefinitions_EdgeOperators(t *testing.T) {
	props := toolMap()["pgm_edges"].InputSchema["properties"].(map[string]interface{})
	op, ok := props["operator"].(map[string]interface{})
	if !ok {
		t.Fatal("operator parameter not found")
	}
	enum, ok := op["enum"].([]string)
	if !ok || len(enum) != 2 {
		t.Fatalf("operator enum: got %v", op["enum"])
	}
	if op["default"] != "sobel" {
		t.Errorf("operator default: got %v, want sobel", op["default"])
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	toolDefaults := map[string]map[string]interface{}{
		"pgm_label":       {"scale": 1.0, "preview": false},
		"pgm_threshold":   {"keep": false},
		"pgm_hough_lines": {"clip_to_edges": false},
		"pgm_preview":     {"scale": 1.0, "colorize": false},
	}

	tools := toolMap()
	for toolName, expectedDefaults := range toolDefaults {
		props, ok := tools[toolName].InputSchema["properties"].(map[string]interface{})
		if !ok {
			t.Errorf("%s: properties should be a map", toolName)
			continue
		}

		for paramName, expected := range expectedDefaults {
			param, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: parameter not found or not a map", toolName, paramName)
				continue
			}
			if param["default"] != expected {
				t.Errorf("%s.%s: default got %v, want %v", toolName, paramName, param["default"], expected)
			}
		}
	}
}
