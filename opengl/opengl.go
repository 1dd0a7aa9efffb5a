//go:build !nogl
// +build !nogl

package opengl

import (
	"embed"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"
	"unsafe"

	"github.com/PrincetonUniversity/boids"
	"github.com/PrincetonUniversity/boids/geom"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/ttacon/chalk"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	MaxSwarmSize int                            // maximum flock size
	FPS          float64                        // target frame rate
	Step         func(dt float64) error         // go to next step
	Spawn        func(pos, dir geom.Vec2) error // add an agent
	Pop          func()                         // remove the most recent agent
	ForcePause   bool                           // step manually only?

	// bounds of default viewport
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// segments is the number of arcs used to draw the field of view of the focal agent.
const segments = 64

// dragThreshold is the distance in pixels beyond which a click becomes a drag.
const dragThreshold = 4

// Run runs an interactive simulation in an OpenGL window.
func Run(s *boids.Simulation, conf *Config) (err error) {
	// init GLFW and OpenGL
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw init")
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	// create OpenGL window
	const (
		title  = "Boids"
		width  = 800
		height = 800
	)
	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	w.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "gl init")
	}

	// set background color and enable alpha blending
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	w.SwapBuffers()

	// initialize OpenGL objects
	d, err := newDisplay(conf.MaxSwarmSize)
	if err != nil {
		return err
	}

	// handle scrolling zoom
	home := newViewport(conf.Xmin, conf.Ymin, conf.Xmax, conf.Ymax)
	vp := home
	focal := -1 // index of the agent whose field of view is displayed
	w.SetScrollCallback(func(w *glfw.Window, xo, yo float64) {
		xc, yc := w.GetCursorPos()
		xs, ys := w.GetSize()
		x, y := float32(xc)/float32(xs), (float32(ys)-float32(yc))/float32(ys)
		vp = vp.zoom(x, y, float32(yo))
	})

	var quit, step bool
	pause := conf.ForcePause
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, mod glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			quit = true
		}
		if key == glfw.KeySpace && action == glfw.Press && !conf.ForcePause {
			pause = !pause
		}
		if key == glfw.KeyRight && (action == glfw.Press || action == glfw.Repeat) {
			if pause {
				step = true
			}
		}
		if key == glfw.KeyTab && action == glfw.Press {
			// cycle through agents, then disable (focal = -1)
			if mod&glfw.ModShift != 0 {
				focal = cycle(focal, -1, s.Len())
			} else {
				focal = cycle(focal, 1, s.Len())
			}
		}
		if key == glfw.KeyR && action == glfw.Press {
			vp = home
		}
	})

	// left click spawns an agent, dragging sets its direction
	// right click removes the most recent agent
	var press struct {
		down   bool
		xc, yc float64
	}
	w.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		xc, yc := w.GetCursorPos()
		xs, ys := w.GetSize()
		switch {
		case button == glfw.MouseButtonLeft && action == glfw.Press:
			press.down, press.xc, press.yc = true, xc, yc
		case button == glfw.MouseButtonLeft && action == glfw.Release && press.down:
			press.down = false
			if s.Len() >= conf.MaxSwarmSize {
				return
			}
			pos := vp.toWorld(press.xc, press.yc, xs, ys)
			var dir geom.Vec2
			if math.Hypot(xc-press.xc, yc-press.yc) < dragThreshold {
				dir = geom.Vec2{X: rand.Float64() - 0.5, Y: rand.Float64() - 0.5}
			} else {
				dir = vp.toWorld(xc, yc, xs, ys).Sub(pos)
			}
			spawn(conf.Spawn, pos, dir)
		case button == glfw.MouseButtonRight && action == glfw.Press:
			conf.Pop()
		}
	})

	frame := time.Duration(float64(time.Second) / conf.FPS)
	last := glfw.GetTime()
	fps, frames, since := 0.0, 0, last
	for !(quit || w.ShouldClose()) {
		start := time.Now()
		now := glfw.GetTime()
		dt := math.Min(now-last, 4/conf.FPS)
		last = now

		switch {
		case step:
			step = false
			if err := conf.Step(1 / conf.FPS); err != nil {
				return err
			}
		case !pause:
			if err := conf.Step(dt); err != nil {
				return err
			}
		}

		if focal >= s.Len() {
			focal = -1
		}
		d.draw(s, focal, vp)
		w.SwapBuffers()
		glfw.PollEvents()

		frames++
		if now-since >= 1 {
			fps, frames, since = float64(frames)/(now-since), 0, now
			w.SetTitle(fmt.Sprintf("%s: %d agents, %.0f fps", title, s.Len(), fps))
		}
		time.Sleep(frame - time.Since(start))
	}
	return nil
}

// vertex is the per-agent data sent to OpenGL.
type vertex struct {
	Pos [2]float32
	Vel [2]float32
}

// display contains all the OpenGL objects required to display the simulation.
type display struct {
	max  int // capacity of the agent buffer
	prog struct {
		boid uint32
		fov  uint32
	}
	vao struct {
		boid uint32
		fov  uint32
	}
	buf struct {
		state uint32 // positions and velocities
		fov   uint32 // field of view wedge of the focal agent
	}
	uni struct {
		boidVP int32 // viewport of boid program
		fovVP  int32 // viewport of fov program
		size   int32 // size of boids
	}
}

// draw updates the OpenGL buffers and draws the agents on screen.
func (d *display) draw(s *boids.Simulation, focal int, vp viewport) {
	d.updateViewport(vp)
	n := d.updateAgents(s.Flock)

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if focal >= 0 {
		d.updateFOV(s.Flock[focal])
		d.drawFOV()
	}
	d.drawAgents(n)
}

// updateViewport sends the new viewport to OpenGL.
func (d *display) updateViewport(vp viewport) {
	gl.UseProgram(d.prog.boid)
	gl.Uniform2fv(d.uni.boidVP, 2, &vp[0].X)
	gl.Uniform1f(d.uni.size, 0.005*(vp[1].X-vp[0].X))
	gl.UseProgram(d.prog.fov)
	gl.Uniform2fv(d.uni.fovVP, 2, &vp[0].X)
}

// updateAgents updates the OpenGL buffer containing agent states
// and returns the number of agents written.
func (d *display) updateAgents(flock []*boids.Agent) int {
	if len(flock) > d.max {
		flock = flock[:d.max]
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.state)
	const n = unsafe.Sizeof(vertex{})
	q := (uintptr)(gl.MapBuffer(gl.ARRAY_BUFFER, gl.WRITE_ONLY))
	if q == 0 {
		return 0
	}
	for i, a := range flock {
		p, v := a.Pos(), a.Vel()
		*(*vertex)(unsafe.Pointer(q + uintptr(i)*n)) = vertex{
			Pos: [2]float32{float32(p.X), float32(p.Y)},
			Vel: [2]float32{float32(v.X), float32(v.Y)},
		}
	}
	gl.UnmapBuffer(gl.ARRAY_BUFFER)
	return len(flock)
}

// updateFOV updates the OpenGL buffer containing the field of view of the focal agent.
func (d *display) updateFOV(a *boids.Agent) {
	p := a.Params()
	v := wedge(a.Pos(), a.Heading(), p.FieldOfView, p.RangeOfView, segments)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.fov)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, 4*len(v), gl.Ptr(v))
}

// drawFOV draws the field of view of the focal agent.
func (d *display) drawFOV() {
	gl.UseProgram(d.prog.fov)
	gl.BindVertexArray(d.vao.fov)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, segments+2)
}

// drawAgents draws the first n agents as triangles.
func (d *display) drawAgents(n int) {
	gl.UseProgram(d.prog.boid)
	gl.BindVertexArray(d.vao.boid)
	gl.DrawArrays(gl.POINTS, 0, int32(n))
}

// newDisplay compiles shaders and initializes a display.
func newDisplay(maxSwarmSize int) (*display, error) {
	d := &display{max: maxSwarmSize}

	// compile and link shaders
	var err error
	d.prog.boid, err = makeProg([]shader{
		{"Vertex", "boid.vert", gl.CreateShader(gl.VERTEX_SHADER)},
		{"Geometry", "boid.geom", gl.CreateShader(gl.GEOMETRY_SHADER)},
		{"Fragment", "boid.frag", gl.CreateShader(gl.FRAGMENT_SHADER)},
	})
	if err != nil {
		return nil, err
	}
	d.prog.fov, err = makeProg([]shader{
		{"Vertex", "fov.vert", gl.CreateShader(gl.VERTEX_SHADER)},
		{"Fragment", "fov.frag", gl.CreateShader(gl.FRAGMENT_SHADER)},
	})
	if err != nil {
		return nil, err
	}

	// uniform location cannot be specified in the shaders in OpenGL 3.3 core
	d.uni.boidVP = gl.GetUniformLocation(d.prog.boid, gl.Str("vp\x00"))
	d.uni.size = gl.GetUniformLocation(d.prog.boid, gl.Str("size\x00"))
	d.uni.fovVP = gl.GetUniformLocation(d.prog.fov, gl.Str("vp\x00"))

	// agents: one point per agent, expanded to a triangle by the geometry shader
	// attribute locations are specified in the shaders with layout(location=n)
	gl.GenVertexArrays(1, &d.vao.boid)
	gl.BindVertexArray(d.vao.boid)

	gl.GenBuffers(1, &d.buf.state)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.state)
	gl.BufferData(gl.ARRAY_BUFFER, maxSwarmSize*int(unsafe.Sizeof(vertex{})), nil, gl.STREAM_DRAW)

	const n = int32(unsafe.Sizeof(vertex{}))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, n, gl.PtrOffset(int(unsafe.Offsetof(vertex{}.Pos))))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, n, gl.PtrOffset(int(unsafe.Offsetof(vertex{}.Vel))))

	// field of view: apex then arc
	gl.GenVertexArrays(1, &d.vao.fov)
	gl.BindVertexArray(d.vao.fov)

	gl.GenBuffers(1, &d.buf.fov)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.fov)
	gl.BufferData(gl.ARRAY_BUFFER, 2*(segments+2)*4, nil, gl.STREAM_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return d, nil
}

//go:embed shaders
var shaders embed.FS

// A shader wraps an OpenGL shader.
type shader struct {
	name   string
	path   string
	shader uint32
}

// makeProg builds OpenGL programs.
func makeProg(list []shader) (uint32, error) {
	var fail bool
	for _, s := range list {
		src, err := shaders.ReadFile("shaders/" + s.path)
		if err != nil {
			return 0, err
		}
		str, free := gl.Strs(string(src) + "\x00")
		gl.ShaderSource(s.shader, 1, str, nil)
		free()
		gl.CompileShader(s.shader)
		var status int32
		gl.GetShaderiv(s.shader, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(s.shader, gl.INFO_LOG_LENGTH, &n)
			info := make([]uint8, n+1)
			gl.GetShaderInfoLog(s.shader, n, &n, &info[0])
			log.Printf("%s%s shader compilation error: %s%s\n%s", chalk.Red, s.name, s.path, chalk.Reset, gl.GoStr(&info[0]))
			fail = true
			gl.DeleteShader(s.shader)
		}
	}
	if fail {
		return 0, errors.New("boids: GLSL errors")
	}
	prog := gl.CreateProgram()
	for _, s := range list {
		gl.AttachShader(prog, s.shader)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status != gl.TRUE {
		return 0, errors.New("boids: GLSL link error")
	}
	return prog, nil
}
