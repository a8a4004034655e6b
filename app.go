package main

import (
	"log"

	"github.com/chazu/slotsnap/pkg/engine"
	"github.com/chazu/slotsnap/pkg/kernel"
	"github.com/chazu/slotsnap/pkg/kernel/sdfx"
	"github.com/chazu/slotsnap/pkg/pose"
	"github.com/chazu/slotsnap/pkg/preview"
	"github.com/chazu/slotsnap/pkg/scene"
	"github.com/chazu/slotsnap/pkg/snap"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// hologramMesh names the preview mesh of the placement hologram.
const hologramMesh = "hologram"

// App runs scene scripts through a placement hologram.
type App struct {
	cfg    Config
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData summarizes one preview mesh.
type MeshData struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Vertices  int    `json:"vertices"`
	Triangles int    `json:"triangles"`
}

// ErrorData is a JSON-serializable error or warning.
type ErrorData struct {
	Line    int    `json:"line,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// StepResult is the hologram state after one scripted step.
type StepResult struct {
	Index         int       `json:"index"`
	Kind          string    `json:"kind"`
	Target        string    `json:"target,omitempty"`
	Valid         bool      `json:"valid_hit"`
	Outcome       string    `json:"outcome"`
	Face          string    `json:"face,omitempty"`
	TargetAnchor  *v3.Vec   `json:"target_anchor,omitempty"`
	OwnAnchor     *v3.Vec   `json:"own_anchor,omitempty"`
	Pose          pose.Pose `json:"pose"`
	RotationStep  int       `json:"rotation_step"`
	SnappedTarget string    `json:"snapped_target,omitempty"`
}

// RunResult is everything a run reports.
type RunResult struct {
	Hologram string       `json:"hologram,omitempty"`
	Steps    []StepResult `json:"steps"`
	Meshes   []MeshData   `json:"meshes,omitempty"`
	Errors   []ErrorData  `json:"errors"`
	Warnings []ErrorData  `json:"warnings"`
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp(cfg Config) *App {
	eng := engine.NewEngine()
	eng.SetTimeout(cfg.EvalTimeout)
	return &App{
		cfg:    cfg,
		engine: eng,
		kernel: sdfx.New(),
	}
}

// Run evaluates source, replays its steps against a hologram of the
// selected class, and optionally meshes the final scene.
func (a *App) Run(source string, withMesh bool) RunResult {
	result := RunResult{
		Steps:    []StepResult{},
		Errors:   []ErrorData{},
		Warnings: []ErrorData{},
	}

	// Step 1: Evaluate the script into a scene.
	sc, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, ErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, ErrorData{Line: e.Line, Message: e.Message})
		}
		return result
	}

	// Step 2: Validate class geometry.
	verrs, warnings := scene.Validate(sc)
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, ErrorData{Subject: w.Subject, Message: w.Message})
	}
	if len(verrs) > 0 {
		for _, e := range verrs {
			result.Errors = append(result.Errors, ErrorData{Subject: e.Subject, Message: e.Message})
		}
		return result
	}

	// Step 3: Replay the steps through a hologram.
	var items []preview.Item
	if mover, err := sc.Mover(); err == nil {
		result.Hologram = mover.Name()
		h, steps, err := replay(sc, mover, snap.NewFreeBase(a.cfg.DefaultRotationStep))
		if err != nil {
			result.Errors = append(result.Errors, ErrorData{Message: err.Error()})
			return result
		}
		result.Steps = steps
		items = append(items, preview.Item{Name: hologramMesh, Size: mover.Size(), Pose: h.Pose()})
	}

	if !withMesh {
		return result
	}

	// Step 4: Mesh the surviving actors and the hologram.
	meshes, err := preview.Render(a.kernel, append(preview.Items(sc), items...), a.cfg.MeshCells)
	if err != nil {
		log.Printf("Render error: %v", err)
		result.Errors = append(result.Errors, ErrorData{Message: "meshing failed: " + err.Error()})
		return result
	}
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Name:      m.Name,
			Color:     colorPalette[i%len(colorPalette)],
			Vertices:  m.VertexCount(),
			Triangles: m.TriangleCount(),
		})
	}

	return result
}
