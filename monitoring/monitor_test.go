package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jeffersonlab/gradramp/hal/simhal"
	"github.com/jeffersonlab/gradramp/ramp"
	"github.com/jeffersonlab/gradramp/zone"
)

var _ = Describe("Monitor", func() {
	var (
		z *zone.Zone
		m *Monitor
	)

	BeforeEach(func() {
		z = zone.MakeBuilder().
			WithName("1L22").
			WithSubFrames(1).
			WithCryoPoints(zone.CryoPoints{
				Target: simhal.NewMemPoint("CRYO:TARGET", 100),
				Ramp:   simhal.NewMemPoint("CRYO:RAMP", 80),
				Load:   simhal.NewMemPoint("CRYO:LOAD", 20),
			}).
			Build()

		sim := simhal.NewSimCavity("1L22-1:", 5)
		z.AddController(ramp.MakeBuilder().
			WithCavity(ramp.Cavity{Name: "1L22-1", LossFactor: 9}).
			WithPoints(sim.Points()).
			WithCoordinator(z).
			WithConfig(ramp.Config{
				SubFrames:        1,
				FramePeriod:      time.Second,
				BaseGradient:     2,
				RFSlew:           0.4,
				DetuneAngleLimit: 10,
			}).
			Build())

		m = NewMonitor(z)
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		m.router().ServeHTTP(w, req)
		return w
	}

	It("should list the zone's cavities", func() {
		w := get("/api/cavities")
		Expect(w.Code).To(Equal(http.StatusOK))

		var rsp []cavityRsp
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveLen(1))
		Expect(rsp[0].Name).To(Equal("1L22-1"))
		Expect(rsp[0].Kind).To(Equal("standard"))
		Expect(rsp[0].View).To(Equal("Off"))
	})

	It("should serve one cavity's details", func() {
		w := get("/api/cavity/1L22-1")
		Expect(w.Code).To(Equal(http.StatusOK))

		var rsp cavityRsp
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Name).To(Equal("1L22-1"))
	})

	It("should 404 on an unknown cavity", func() {
		w := get("/api/cavity/9L99-9")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should serve the cryo snapshot", func() {
		w := get("/api/cryo")
		Expect(w.Code).To(Equal(http.StatusOK))

		var rsp cryoRsp
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		// The snapshot is zero until the zone's first major frame.
		Expect(rsp.Target).To(Equal(0.0))
	})

	It("should pause, continue, and abort the zone", func() {
		get("/api/pause")
		Expect(z.Paused()).To(BeTrue())

		get("/api/continue")
		Expect(z.Paused()).To(BeFalse())

		get("/api/abort")
		Expect(z.Aborted()).To(BeTrue())
	})

	It("should report process resource usage", func() {
		w := get("/api/resource")
		Expect(w.Code).To(Equal(http.StatusOK))

		var rsp resourceRsp
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})
})
