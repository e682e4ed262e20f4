package http_test

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

// Cada ruta registrada bajo /api debe estar documentada en docs/swagger.json.
func TestSwaggerDoc_CubreTodasLasRutas(t *testing.T) {
	raw, err := os.ReadFile("../../../docs/swagger.json")
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	app := buildAPI(t)
	checked := 0
	for _, r := range app.GetRoutes(true) {
		if !strings.HasPrefix(r.Path, "/api/") || (r.Method != "GET" && r.Method != "POST") {
			continue
		}
		path := pathParam.ReplaceAllString(strings.TrimRight(r.Path, "/"), "{$1}")
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "ruta sin documentar: %s", path) {
			_, ok = ops[strings.ToLower(r.Method)]
			assert.True(t, ok, "método sin documentar: %s %s", r.Method, path)
		}
		checked++
	}
	assert.Equal(t, 15, checked)
}
