package rangefinder

import (
	"io"

	"github.com/autolab/resonance/pkg/internal/types"
	"go.bug.st/serial"
)

// SerialPortOpener is the hardware-backed PortOpener used outside tests.
type SerialPortOpener struct{}

// NewSerialPortOpener returns the real serial implementation.
func NewSerialPortOpener() types.PortOpener {
	return SerialPortOpener{}
}

// List enumerates the serial ports present on the host.
func (SerialPortOpener) List() ([]string, error) {
	return serial.GetPortsList()
}

// Open opens the port in 8N1 at the given baud rate.
func (SerialPortOpener) Open(path string, baudRate int) (io.ReadWriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return serial.Open(path, mode)
}
