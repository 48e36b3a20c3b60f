//go:build js && wasm
// +build js,wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/MeKo-Tech/terrainnoise/internal/noise"
	"github.com/MeKo-Tech/terrainnoise/internal/terrain"
)

// maxSize caps browser previews.
const maxSize = 512

// GenerateRequest represents a field generation request from JS.
// Signal selects a terrain preset; when empty, the explicit parameters are
// used and Algorithm is one of perlin, layered or simplex.
type GenerateRequest struct {
	Signal      string  `json:"signal"`
	Algorithm   string  `json:"algorithm"`
	Size        int     `json:"size"`
	Seed        int64   `json:"seed"`
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Lacunarity  float64 `json:"lacunarity"`
	Scale       float64 `json:"scale"`
}

type GenerateResponse struct {
	Rows [][]float64 `json:"rows"`
	Min  float64     `json:"min"`
	Max  float64     `json:"max"`
}

func errorResult(format string, args ...any) any {
	return map[string]any{"error": fmt.Sprintf(format, args...)}
}

// generate is called from JavaScript with a JSON request and returns the
// field rows as a JSON string.
func generate(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing arguments")
	}

	var req GenerateRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return errorResult("failed to parse request: %v", err)
	}
	if req.Size > maxSize {
		return errorResult("size %d exceeds %d", req.Size, maxSize)
	}

	gen, err := noise.NewGenerator(req.Size, nil)
	if err != nil {
		return errorResult("%v", err)
	}

	deriver, err := terrain.NewDeriver(gen, req.Seed, terrain.DefaultPresets())
	if err != nil {
		return errorResult("%v", err)
	}

	var resp GenerateResponse
	if req.Signal != "" {
		f, err := deriver.Derive(terrain.Signal(req.Signal))
		if err != nil {
			return errorResult("%v", err)
		}
		resp.Rows = f.Rows()
		resp.Min, resp.Max = f.Bounds()
	} else {
		algorithm, err := noise.ParseAlgorithm(req.Algorithm)
		if err != nil {
			return errorResult("%v", err)
		}
		f, err := gen.Generate(noise.Config{
			Algorithm:   algorithm,
			Octaves:     req.Octaves,
			Persistence: req.Persistence,
			Lacunarity:  req.Lacunarity,
			Scale:       req.Scale,
			Seed:        req.Seed,
		})
		if err != nil {
			return errorResult("%v", err)
		}
		resp.Rows = f.Rows()
		resp.Min, resp.Max = f.Bounds()
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return errorResult("failed to encode response: %v", err)
	}
	return string(data)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("terrainnoiseGenerate", js.FuncOf(generate))

	fmt.Println("TerrainNoise WASM module loaded")
	<-c
}
