package ramp

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Download", func() {
	var (
		points *fakePoints
		z      *fakeZone
		sink   *fakeSink
	)

	BeforeEach(func() {
		points = newFakePoints(5)
		z = newFakeZone()
		sink = &fakeSink{}
	})

	build := func(cavity Cavity, cfg Config) *Controller {
		return buildController(cavity, cfg, points, z, sink)
	}

	It("should write bypassed cavities straight to their target", func() {
		points.gset.value = 10
		c := build(Cavity{Name: "c1", Bypassed: true, LossFactor: 9},
			testConfig())
		c.Begin(10, false)

		done, err := c.download()
		Expect(err).To(BeNil())
		Expect(done).To(BeTrue())
		Expect(points.gset.puts).To(Equal([]float64{10}))
	})

	It("should drop to the baseline once before ramping", func() {
		c := build(Cavity{Name: "c1", LossFactor: 9}, testConfig())
		c.Begin(6, true)

		done, err := c.download()
		Expect(err).To(BeNil())
		Expect(done).To(BeFalse())
		Expect(points.gset.value).To(Equal(2.0))

		done, err = c.download()
		Expect(err).To(BeNil())
		Expect(done).To(BeFalse())
		Expect(points.gset.value).To(BeNumerically(">", 2.0))
	})

	It("should hold the gradient while the tuner is unhappy", func() {
		points.detuneAngle.value = 20
		c := build(Cavity{Name: "c1", LossFactor: 9}, testConfig())
		c.Begin(6, false)

		done, err := c.download()
		Expect(err).To(BeNil())
		Expect(done).To(BeFalse())
		Expect(c.View()).To(Equal(ViewTunerWait))
		Expect(points.gset.puts).To(BeEmpty())
	})

	It("should apply the RF bound scaled to the frame period", func() {
		cfg := testConfig()
		cfg.RFSlew = 0.1
		cfg.FramePeriod = 100 * time.Millisecond
		c := build(Cavity{Name: "c1", LossFactor: 9}, cfg)
		c.Begin(10, false)

		next, vm := c.boundedStep(5)
		want := 5 + (math.Sqrt(5*5+0.1*0.1)-5)*0.1
		Expect(next).To(BeNumerically("~", want, 1e-12))
		Expect(vm).To(Equal(ViewRamp))
	})

	It("should shrink the RF bound as the gradient grows", func() {
		c := build(Cavity{Name: "c1", LossFactor: 9}, testConfig())
		c.Begin(20, false)

		low, _ := c.boundedStep(2)
		high, _ := c.boundedStep(5)

		Expect(low - 2).To(BeNumerically(">", high-5))
		Expect(low - 2).To(BeNumerically("<",
			c.cfg.RFSlew*c.cfg.FramePeriod.Seconds()))
	})

	It("should land exactly on the target", func() {
		c := build(Cavity{Name: "c1", LossFactor: 9}, testConfig())
		c.Begin(5.01, false)

		next, _ := c.boundedStep(5)
		Expect(next).To(Equal(5.01))
	})

	It("should never consult the cryo plant while ramping down", func() {
		// Negative margin would zero an upward step; downward must ignore it.
		z.snap = CryoSnapshot{Target: 100, Ramp: 50, Load: 60}
		c := build(Cavity{Name: "c1", LossFactor: 9}, testConfig())
		c.Begin(8, false)

		next, vm := c.boundedStep(10)
		Expect(next).To(BeNumerically("<", 10))
		Expect(vm).To(Equal(ViewRamp))
	})

	It("should hold an upward ramp when the cryo margin is gone", func() {
		z.snap = CryoSnapshot{Target: 100, Ramp: 50, Load: 60}
		c := build(Cavity{Name: "c1", LossFactor: 9}, testConfig())
		c.Begin(10, false)

		next, vm := c.boundedStep(5)
		Expect(next).To(Equal(5.0))
		Expect(vm).To(Equal(ViewCryoLimited))
	})

	It("should take the cryo bound when it is the tighter one", func() {
		z.snap = CryoSnapshot{Target: 100, Ramp: 10, Load: 9.9}
		c := build(Cavity{Name: "c1", LossFactor: 1}, testConfig())
		c.Begin(10, false)

		next, vm := c.boundedStep(2)
		want := math.Sqrt(2*2 + 0.1*1)
		Expect(next).To(BeNumerically("~", want, 1e-12))
		Expect(vm).To(Equal(ViewCryoLimited))
	})

	It("should ignore the cryo bound once the plant has arrived", func() {
		// Gap at or below the threshold means capacity is no longer moving.
		z.snap = CryoSnapshot{Target: 100, Ramp: 99.95, Load: 99.96}
		c := build(Cavity{Name: "c1", LossFactor: 9}, testConfig())
		c.Begin(10, false)

		next, vm := c.boundedStep(5)
		want := 5 + (math.Sqrt(5*5+0.4*0.4) - 5)
		Expect(next).To(BeNumerically("~", want, 1e-12))
		Expect(vm).To(Equal(ViewRamp))
	})

	It("should report the cryo view on a tied bound", func() {
		// RF slew at g=0 is exactly RFSlew*period; pick the cryo numbers so
		// the cryo bound matches it.
		cfg := testConfig()
		cfg.RFSlew = 0.5
		z.snap = CryoSnapshot{Target: 100, Ramp: 10, Load: 9.75}
		c := build(Cavity{Name: "c1", LossFactor: 1}, cfg)
		c.Begin(10, false)

		_, vm := c.boundedStep(0)
		Expect(vm).To(Equal(ViewCryoLimited))
	})

	It("should propagate gradient read faults", func() {
		points.gset.getErr = errFault
		c := build(Cavity{Name: "c1", LossFactor: 9}, testConfig())
		c.Begin(6, false)

		_, err := c.download()
		Expect(err).To(MatchError(errFault))
	})
})
