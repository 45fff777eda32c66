package main

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/glkit/cmd/glcheck/shaders"
	"github.com/Faultbox/glkit/internal/config"
	"github.com/Faultbox/glkit/internal/logger"
	"github.com/Faultbox/glkit/internal/screenshot"
	"github.com/Faultbox/glkit/internal/selfcheck"
	"github.com/Faultbox/glkit/internal/window"
	"github.com/Faultbox/glkit/pkg/glutil"
	"github.com/Faultbox/glkit/pkg/glutil/glcore"
	"github.com/Faultbox/glkit/pkg/glutil/imageload"
)

// hiddenFrames is how many frames a hidden window renders before exiting.
const hiddenFrames = 3

// quadVertices is a full-screen triangle strip: position (2) + uv (2).
var quadVertices = []float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	-1, 1, 0, 1,
	1, 1, 1, 1,
}

type app struct {
	cfg    *config.Config
	window *window.Window
	driver *glcore.Driver

	program *glutil.Program
	vbo     *glutil.Buffer
	vao     *glutil.VertexArray
	texture *glutil.Texture
	sampler int32

	closed bool
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	var err error
	a.window, err = window.New(window.Config{
		Title:        cfg.Window.Title,
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		Hidden:       cfg.Window.Hidden,
		VSync:        cfg.Window.VSync,
		GLMajor:      cfg.Context.Major,
		GLMinor:      cfg.Context.Minor,
		DebugContext: cfg.Context.DebugContext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// GL function pointers are only valid once the context is current.
	a.driver, err = glcore.New()
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("OpenGL ready",
		zap.String("version", a.driver.Version()),
		zap.String("renderer", a.driver.Renderer()),
	)

	if cfg.Debug.Output {
		glutil.EnableDebugOutput(a.driver, glutil.DebugLogger(logger.Named("gl")))
	}

	if _, err := selfcheck.Run(a.driver, selfcheck.Checks()); err != nil {
		a.Close()
		return nil, fmt.Errorf("self checks: %w", err)
	}

	if err := a.setupScene(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to set up scene: %w", err)
	}
	return a, nil
}

func (a *app) setupScene() error {
	var err error
	a.program, err = glutil.CompileProgram(a.driver, shaders.QuadVertexShader, shaders.QuadFragmentShader)
	if err != nil {
		return err
	}
	a.sampler = a.program.Uniform("u_texture")

	a.vbo, err = glutil.CreateBuffer(a.driver, quadVertices, glutil.StaticDraw)
	if err != nil {
		return err
	}
	a.vao, err = glutil.CreateVertexArray(a.driver)
	if err != nil {
		return err
	}
	if err := glutil.EnableInterleavedAttributes(a.driver, a.vao.ID(), a.vbo.ID(), glutil.Float32, false, 0, 2, 2); err != nil {
		return err
	}

	a.texture, err = a.loadTexture()
	if err != nil {
		return err
	}
	return glutil.CheckError(a.driver)
}

func (a *app) loadTexture() (*glutil.Texture, error) {
	if path := a.cfg.Assets.Image; path != "" {
		px, err := imageload.Load(path)
		if err != nil {
			return nil, err
		}
		// Images are stored top row first; GL samples v=0 at the bottom.
		px.FlipVertical()
		logger.Info("image loaded",
			zap.String("path", path),
			zap.Int("width", px.Width),
			zap.Int("height", px.Height),
			zap.Stringer("format", px.Format),
		)
		return px.Upload(a.driver)
	}
	return imageload.Checkerboard(256, 256, 32).Upload(a.driver)
}

// Run renders until the window is closed. A hidden window renders a few
// frames and returns.
func (a *app) Run() error {
	frames := 0
	fpsTimer := time.Now()
	fpsFrames := 0

	logger.Info("starting render loop", zap.Bool("hidden", a.cfg.Window.Hidden))
	for {
		if a.window.PollEvents() {
			return nil
		}

		if err := a.render(); err != nil {
			return fmt.Errorf("frame %d: %w", frames, err)
		}
		if frames == 0 && a.cfg.Debug.Screenshot != "" {
			if err := a.capture(); err != nil {
				return fmt.Errorf("screenshot: %w", err)
			}
		}
		a.window.SwapBuffers()

		frames++
		if a.cfg.Window.Hidden && frames >= hiddenFrames {
			return nil
		}

		fpsFrames++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", fpsFrames))
			fpsFrames = 0
			fpsTimer = time.Now()
		}
	}
}

func (a *app) render() error {
	w, h := a.window.GetSize()
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.ClearColor(0.1, 0.1, 0.12, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	a.program.Use()
	gl.BindTextureUnit(0, a.texture.ID())
	if a.sampler >= 0 {
		gl.Uniform1i(a.sampler, 0)
	}
	gl.BindVertexArray(a.vao.ID())
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	return glutil.CheckError(a.driver)
}

// capture reads the back buffer before it is swapped and saves it.
func (a *app) capture() error {
	w, h := a.window.GetSize()
	px := &imageload.Pixels{Width: w, Height: h, Format: glutil.RGBA, Data: make([]byte, w*h*4)}
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(px.Data))
	if err := glutil.CheckError(a.driver); err != nil {
		return err
	}

	path, err := screenshot.NewWriter(a.cfg.Debug.Screenshot, "glcheck").SaveFramebuffer(px)
	if err != nil {
		return err
	}
	logger.Info("screenshot saved", zap.String("path", path))
	return nil
}

// Close releases GL objects before the context goes away. It is safe to
// call more than once.
func (a *app) Close() {
	if a.closed {
		return
	}
	a.closed = true

	if a.texture != nil {
		a.texture.Destroy()
	}
	if a.vao != nil {
		a.vao.Destroy()
	}
	if a.vbo != nil {
		a.vbo.Destroy()
	}
	if a.program != nil {
		a.program.Destroy()
	}
	if a.window != nil {
		a.window.Close()
	}
}
