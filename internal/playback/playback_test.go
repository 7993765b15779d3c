package playback_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/driftpair/internal/playback"
)

type fakeStage struct {
	calls []string
}

func (f *fakeStage) Advance()    { f.calls = append(f.calls, "advance") }
func (f *fakeStage) DrawFrame()  { f.calls = append(f.calls, "frame") }
func (f *fakeStage) DrawTrails() { f.calls = append(f.calls, "trails") }
func (f *fakeStage) ClearFrame() { f.calls = append(f.calls, "clear") }

func (f *fakeStage) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

var _ = Describe("Controller", func() {
	var (
		stage *fakeStage
		ctrl  *playback.Controller
	)

	BeforeEach(func() {
		stage = &fakeStage{}
		ctrl = playback.New(stage)
	})

	It("starts running with the stop affordance", func() {
		Expect(ctrl.State()).To(Equal(playback.Running))
		Expect(ctrl.State().Affordance()).To(Equal("stop"))
		Expect(ctrl.TrailRenders()).To(BeZero())
	})

	It("draws then advances on every running tick", func() {
		ctrl.Tick()
		ctrl.Tick()
		Expect(stage.calls).To(Equal([]string{"frame", "advance", "frame", "advance"}))
	})

	Context("when toggled to stopped", func() {
		BeforeEach(func() {
			Expect(ctrl.Toggle()).To(Equal(playback.Stopped))
		})

		It("renders the trails exactly once", func() {
			Expect(stage.count("trails")).To(Equal(1))
			Expect(ctrl.TrailRenders()).To(Equal(1))
		})

		It("shows the play affordance", func() {
			Expect(ctrl.State().Affordance()).To(Equal("play"))
		})

		It("ignores ticks", func() {
			ctrl.Tick()
			ctrl.Tick()
			Expect(stage.count("advance")).To(BeZero())
			Expect(stage.count("frame")).To(BeZero())
			Expect(stage.count("trails")).To(Equal(1))
		})

		It("clears the frame and resumes on the next toggle", func() {
			Expect(ctrl.Toggle()).To(Equal(playback.Running))
			Expect(stage.calls).To(Equal([]string{"trails", "clear"}))
			ctrl.Tick()
			Expect(stage.count("advance")).To(Equal(1))
		})
	})

	It("restores running after two round trips with one trail render per stop", func() {
		for i := 0; i < 2; i++ {
			ctrl.Toggle()
			ctrl.Toggle()
		}
		Expect(ctrl.State()).To(Equal(playback.Running))
		Expect(ctrl.TrailRenders()).To(Equal(2))
		Expect(stage.count("trails")).To(Equal(2))
	})

	It("notifies listeners after each transition", func() {
		var seen []playback.State
		ctrl.OnChange(func(s playback.State) { seen = append(seen, s) })
		ctrl.Toggle()
		ctrl.Toggle()
		Expect(seen).To(Equal([]playback.State{playback.Stopped, playback.Running}))
	})
})

var _ = DescribeTable("State strings",
	func(s playback.State, name, icon string) {
		Expect(s.String()).To(Equal(name))
		Expect(s.Affordance()).To(Equal(icon))
	},
	Entry("running", playback.Running, "running", "stop"),
	Entry("stopped", playback.Stopped, "stopped", "play"),
)
