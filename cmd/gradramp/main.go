// gradramp drives gradient Apply episodes for a zone of simulated SRF
// cavities. It exists to exercise the ramp controller end to end without
// a control system attached; production deployments wire the same
// packages to real hardware points.
package main

func main() {
	Execute()
}
