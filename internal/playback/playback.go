package playback

// State is the playback mode. The zero value is Running.
type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Affordance names the control icon to show in this state: the action a
// toggle would perform next.
func (s State) Affordance() string {
	if s == Running {
		return "stop"
	}
	return "play"
}

// Stage is what the controller drives once per frame.
type Stage interface {
	// Advance moves the model forward one tick.
	Advance()
	// DrawFrame draws the live, fading view of the current tick.
	DrawFrame()
	// DrawTrails draws every recorded path. Called once per stop.
	DrawTrails()
	// ClearFrame wipes the surface before live drawing resumes.
	ClearFrame()
}

type Controller struct {
	stage     Stage
	state     State
	trails    int
	listeners []func(State)
}

func New(stage Stage) *Controller {
	return &Controller{stage: stage, state: Running}
}

func (c *Controller) State() State { return c.state }

// TrailRenders counts the one-shot trail renders performed so far.
func (c *Controller) TrailRenders() int { return c.trails }

// OnChange registers fn to be called after every transition.
func (c *Controller) OnChange(fn func(State)) {
	c.listeners = append(c.listeners, fn)
}

// Toggle flips between Running and Stopped. Stopping renders the trails
// once; resuming clears the frame.
func (c *Controller) Toggle() State {
	switch c.state {
	case Running:
		c.state = Stopped
		c.stage.DrawTrails()
		c.trails++
	case Stopped:
		c.state = Running
		c.stage.ClearFrame()
	}
	for _, fn := range c.listeners {
		fn(c.state)
	}
	return c.state
}

// Tick performs one animation frame. It is a no-op while stopped.
func (c *Controller) Tick() {
	if c.state != Running {
		return
	}
	c.stage.DrawFrame()
	c.stage.Advance()
}
