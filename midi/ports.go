package midi

import (
	"strconv"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Sender writes one message to an output port.
type Sender func(msg gomidi.Message) error

// Ports lists the input and output port names of the registered driver.
func Ports() (ins []string, outs []string) {
	for _, p := range gomidi.GetInPorts() {
		ins = append(ins, p.String())
	}
	for _, p := range gomidi.GetOutPorts() {
		outs = append(outs, p.String())
	}
	return ins, outs
}

// findIn resolves a port by number or by name. Empty means the first port.
func findIn(port string) (drivers.In, error) {
	if port == "" {
		return gomidi.InPort(0)
	}
	if n, err := strconv.Atoi(port); err == nil {
		return gomidi.InPort(n)
	}
	return gomidi.FindInPort(port)
}

func findOut(port string) (drivers.Out, error) {
	if port == "" {
		return gomidi.OutPort(0)
	}
	if n, err := strconv.Atoi(port); err == nil {
		return gomidi.OutPort(n)
	}
	return gomidi.FindOutPort(port)
}

func OpenOut(port string) (Sender, error) {
	out, err := findOut(port)
	if err != nil {
		return nil, errors.Wrapf(err, "can't find midi output %q", port)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open midi output %q", port)
	}
	log.WithField("port", out.String()).Info("midi output open")
	return send, nil
}

func Close() {
	gomidi.CloseDriver()
}
