// Package monitoring serves the live state of a zone over HTTP so that an
// operator display (or curl) can watch a ramp and pause, continue, or
// abort it. The monitor only touches exported zone and controller
// accessors; the ramp logic has no dependency on it.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	"github.com/jeffersonlab/gradramp/zone"
)

// Monitor exposes one zone as an HTTP server.
type Monitor struct {
	zone       *zone.Zone
	portNumber int
}

// NewMonitor creates a Monitor for the given zone.
func NewMonitor(z *zone.Zone) *Monitor {
	m := new(Monitor)
	m.zone = z

	return m
}

// WithPortNumber sets the port number of the monitor. Ports below 1000
// are rejected and replaced with a random port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the monitoring server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// StartServer starts the monitoring server on its own goroutine and
// reports the address on stderr.
func (m *Monitor) StartServer() {
	r := m.router()

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(os.Stderr,
		"Monitoring zone %s with http://localhost:%d\n",
		m.zone.Name(), listener.Addr().(*net.TCPAddr).Port)

	go func() {
		dieOnErr(http.Serve(listener, r))
	}()
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/cavities", m.listCavities)
	r.HandleFunc("/api/cavity/{name}", m.cavityDetails)
	r.HandleFunc("/api/cryo", m.cryoSnapshot)
	r.HandleFunc("/api/pause", m.pauseZone)
	r.HandleFunc("/api/continue", m.continueZone)
	r.HandleFunc("/api/abort", m.abortZone)
	r.HandleFunc("/api/resource", m.listResources)

	return r
}

type cavityRsp struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	View     string  `json:"view"`
	Gradient float64 `json:"gradient"`
	Target   float64 `json:"target"`
}

func (m *Monitor) listCavities(w http.ResponseWriter, _ *http.Request) {
	controllers := m.zone.Controllers()

	rsp := make([]cavityRsp, 0, len(controllers))
	for _, c := range controllers {
		rsp = append(rsp, cavityRsp{
			Name:     c.Name(),
			Kind:     c.Cavity().Kind.String(),
			View:     c.View().String(),
			Gradient: c.Gradient(),
			Target:   c.Target(),
		})
	}

	m.writeJSON(w, rsp)
}

func (m *Monitor) cavityDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	c, found := m.zone.Controller(name)
	if !found {
		http.Error(w,
			fmt.Sprintf("cavity %s not found", name),
			http.StatusNotFound)
		return
	}

	m.writeJSON(w, cavityRsp{
		Name:     c.Name(),
		Kind:     c.Cavity().Kind.String(),
		View:     c.View().String(),
		Gradient: c.Gradient(),
		Target:   c.Target(),
	})
}

type cryoRsp struct {
	Episode string  `json:"episode"`
	Target  float64 `json:"target"`
	Ramp    float64 `json:"ramp"`
	Load    float64 `json:"load"`
}

func (m *Monitor) cryoSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap := m.zone.Cryo()

	m.writeJSON(w, cryoRsp{
		Episode: m.zone.Episode(),
		Target:  snap.Target,
		Ramp:    snap.Ramp,
		Load:    snap.Load,
	})
}

func (m *Monitor) pauseZone(w http.ResponseWriter, _ *http.Request) {
	m.zone.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueZone(w http.ResponseWriter, _ *http.Request) {
	m.zone.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) abortZone(w http.ResponseWriter, _ *http.Request) {
	m.zone.Abort()
	_, err := w.Write(nil)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
