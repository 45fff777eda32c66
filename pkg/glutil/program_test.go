package glutil

import (
	"errors"
	"strings"
	"testing"
)

const (
	validVertex   = "#version 460 core\nvoid main() { gl_Position = vec4(0.0); }"
	validFragment = "#version 460 core\nout vec4 c;\nvoid main() { c = vec4(1.0); }"
)

func assertShadersDestroyedOnce(t *testing.T, d *fakeDriver, want int) {
	t.Helper()
	ids := d.idsOf("shader")
	if len(ids) != want {
		t.Fatalf("expected %d shaders created, got %d", want, len(ids))
	}
	for _, id := range ids {
		if n := d.deleted[id]; n != 1 {
			t.Errorf("shader %d deleted %d times, want 1", id, n)
		}
	}
}

func TestBuildVertexFragment(t *testing.T) {
	d := newFakeDriver()
	b := NewProgramBuilder(d)

	if err := b.AddStage(Vertex, validVertex); err != nil {
		t.Fatalf("add vertex: %v", err)
	}
	if err := b.AddStage(Fragment, validFragment); err != nil {
		t.Fatalf("add fragment: %v", err)
	}

	p, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !p.Valid() {
		t.Fatal("expected a valid program")
	}

	assertShadersDestroyedOnce(t, d, 2)

	if got := len(d.attached[p.ID()]); got != 2 {
		t.Errorf("expected 2 attached shaders, got %d", got)
	}
	if got := len(d.detached[p.ID()]); got != 2 {
		t.Errorf("expected 2 detached shaders, got %d", got)
	}
	if d.liveOf("program") != 1 {
		t.Errorf("expected the program to stay alive")
	}

	// Attach order follows the pipeline, not map iteration.
	first := d.attached[p.ID()][0]
	if ShaderStage(d.stages[first]) != Vertex {
		t.Errorf("expected vertex shader attached first, got %s", ShaderStage(d.stages[first]))
	}

	p.Destroy()
	if d.liveOf("program") != 0 {
		t.Error("expected program deleted after Destroy")
	}
}

func TestAddStageDuplicate(t *testing.T) {
	d := newFakeDriver()
	b := NewProgramBuilder(d)
	defer b.Close()

	if err := b.AddVertex(validVertex); err != nil {
		t.Fatalf("add vertex: %v", err)
	}
	firstID := b.shaders[Vertex].ID()
	compiles := d.created["shader"]

	err := b.AddVertex(validVertex)
	if !errors.Is(err, ErrDuplicateStage) {
		t.Fatalf("expected ErrDuplicateStage, got %v", err)
	}
	if KindOf(err) != KindValidation {
		t.Errorf("expected validation kind, got %s", KindOf(err))
	}
	if d.created["shader"] != compiles {
		t.Error("duplicate stage must be rejected before compiling")
	}
	if got := b.shaders[Vertex].ID(); got != firstID {
		t.Errorf("first vertex shader replaced: %d -> %d", firstID, got)
	}
	if b.Len() != 1 {
		t.Errorf("expected 1 stage, got %d", b.Len())
	}
}

func TestBuildEmpty(t *testing.T) {
	d := newFakeDriver()
	b := NewProgramBuilder(d)

	_, err := b.Build()
	if !errors.Is(err, ErrEmptyProgram) {
		t.Fatalf("expected ErrEmptyProgram, got %v", err)
	}
	if d.created["program"] != 0 {
		t.Error("no program object should be created")
	}
}

func TestAddStageCompileError(t *testing.T) {
	d := newFakeDriver()
	b := NewProgramBuilder(d)
	defer b.Close()

	err := b.AddStage(Vertex, "bad syntax")
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("expected ErrCompile, got %v", err)
	}

	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if ce.Stage != Vertex {
		t.Errorf("expected stage Vertex, got %s", ce.Stage)
	}
	if !strings.Contains(err.Error(), d.compileLog) {
		t.Errorf("error %q does not carry the driver log", err)
	}
	if !strings.HasPrefix(err.Error(), "Vertex shader compilation failed") {
		t.Errorf("unexpected message: %q", err)
	}
	if b.Has(Vertex) {
		t.Error("failed stage must not be stored")
	}
	if KindOf(err) != KindDriverRejected {
		t.Errorf("expected driver rejected kind, got %s", KindOf(err))
	}

	// The failed shader object itself is not leaked.
	assertShadersDestroyedOnce(t, d, 1)
}

func TestBuildLinkError(t *testing.T) {
	d := newFakeDriver()
	d.linkFail = true
	b := NewProgramBuilder(d)

	if err := b.AddVertex(validVertex); err != nil {
		t.Fatalf("add vertex: %v", err)
	}
	if err := b.AddFragment(validFragment); err != nil {
		t.Fatalf("add fragment: %v", err)
	}

	_, err := b.Build()
	if !errors.Is(err, ErrLink) {
		t.Fatalf("expected ErrLink, got %v", err)
	}
	if !strings.Contains(err.Error(), d.linkLog) {
		t.Errorf("error %q does not carry the link log", err)
	}

	assertShadersDestroyedOnce(t, d, 2)
	for _, id := range d.idsOf("program") {
		if d.deleted[id] != 1 {
			t.Errorf("program %d deleted %d times, want 1", id, d.deleted[id])
		}
		if len(d.detached[id]) != 2 {
			t.Errorf("expected shaders detached after a failed link, got %d", len(d.detached[id]))
		}
	}
}

func TestBuilderCloseWithoutBuild(t *testing.T) {
	d := newFakeDriver()
	b := NewProgramBuilder(d)

	for _, stage := range []ShaderStage{Vertex, Geometry, Fragment} {
		if err := b.AddStage(stage, validVertex); err != nil {
			t.Fatalf("add %s: %v", stage, err)
		}
	}
	b.Close()
	b.Close()

	assertShadersDestroyedOnce(t, d, 3)
	if d.created["program"] != 0 {
		t.Error("Close must not create a program")
	}
}

func TestBuilderConsumed(t *testing.T) {
	d := newFakeDriver()
	b := NewProgramBuilder(d)
	if err := b.AddCompute("#version 460 core\nlayout(local_size_x = 1) in;\nvoid main() {}"); err != nil {
		t.Fatalf("add compute: %v", err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer p.Destroy()

	if err := b.AddVertex(validVertex); !errors.Is(err, ErrBuilderConsumed) {
		t.Errorf("expected ErrBuilderConsumed from AddVertex, got %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrBuilderConsumed) {
		t.Errorf("expected ErrBuilderConsumed from Build, got %v", err)
	}
	b.Close()
	assertShadersDestroyedOnce(t, d, 1)
}

func TestAddStageInvalid(t *testing.T) {
	d := newFakeDriver()
	b := NewProgramBuilder(d)
	defer b.Close()

	err := b.AddStage(ShaderStage(0x1234), validVertex)
	if !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}
	if d.calls != 0 {
		t.Errorf("expected no driver calls, got %d", d.calls)
	}
}

func TestCompileShaderZeroHandle(t *testing.T) {
	d := newFakeDriver()
	d.zeroHandles = true

	_, err := CompileShader(d, Fragment, validFragment)
	if !errors.Is(err, ErrZeroHandle) {
		t.Fatalf("expected ErrZeroHandle, got %v", err)
	}
	if KindOf(err) != KindResourceExhausted {
		t.Errorf("expected resource exhausted kind, got %s", KindOf(err))
	}
}

func TestCreateProgramKeepsShaderOwnership(t *testing.T) {
	d := newFakeDriver()
	vs, err := CompileShader(d, Vertex, validVertex)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer vs.Destroy()

	p, err := CreateProgram(d, vs)
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	defer p.Destroy()

	if !vs.Valid() || d.deleted[vs.ID()] != 0 {
		t.Error("CreateProgram must not delete caller-owned shaders")
	}

	if _, err := CreateProgram(d); !errors.Is(err, ErrEmptyProgram) {
		t.Errorf("expected ErrEmptyProgram, got %v", err)
	}
	if _, err := CreateProgram(d, &Shader{}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle, got %v", err)
	}
}

func TestCompileProgram(t *testing.T) {
	d := newFakeDriver()

	p, err := CompileProgram(d, validVertex, validFragment)
	if err != nil {
		t.Fatalf("compile program: %v", err)
	}
	assertShadersDestroyedOnce(t, d, 2)
	p.Destroy()

	d = newFakeDriver()
	if _, err := CompileProgram(d, validVertex, "bad fragment"); !errors.Is(err, ErrCompile) {
		t.Fatalf("expected ErrCompile, got %v", err)
	}
	assertShadersDestroyedOnce(t, d, 2)
}

func TestProgramUniform(t *testing.T) {
	d := newFakeDriver()
	d.uniforms["projection"] = 3

	p, err := CompileProgram(d, validVertex, validFragment)
	if err != nil {
		t.Fatalf("compile program: %v", err)
	}
	defer p.Destroy()

	p.Use()
	if d.usedProgram != p.ID() {
		t.Errorf("expected program %d in use, got %d", p.ID(), d.usedProgram)
	}
	if loc := p.MustUniform("projection"); loc != 3 {
		t.Errorf("expected location 3, got %d", loc)
	}
	if loc := p.Uniform("missing"); loc != -1 {
		t.Errorf("expected -1 for a missing uniform, got %d", loc)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected MustUniform to panic for a missing uniform")
		}
	}()
	p.MustUniform("missing")
}

func TestProgramRelease(t *testing.T) {
	d := newFakeDriver()
	p, err := CompileProgram(d, validVertex, validFragment)
	if err != nil {
		t.Fatalf("compile program: %v", err)
	}

	id := p.Release()
	p.Destroy()
	if d.deleted[id] != 0 {
		t.Error("Destroy after Release must not delete the program")
	}
	if p.Valid() {
		t.Error("released program must report invalid")
	}
}
