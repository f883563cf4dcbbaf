package printer

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

// Transport names accepted in Config.Type.
const (
	TypeUSB     = "usb"
	TypeNetwork = "network"
	TypeNone    = "none"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// Printer is a thermal printer that takes raw ESC/POS jobs.
type Printer interface {
	Print(data []byte) error
	Close() error
	// IsConnected probes the device without printing.
	IsConnected() bool
	// Describe is shown on the status endpoint, e.g. "network 10.0.0.5:9100".
	Describe() string
}

type Config struct {
	Type         string
	USBPath      string // character device, e.g. /dev/usb/lp0
	Address      string // host:port, usually port 9100
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// New builds the transport named by cfg.Type. Real devices are serialized;
// an empty type gives the null printer.
func New(cfg Config) (Printer, error) {
	switch cfg.Type {
	case TypeUSB:
		if cfg.USBPath == "" {
			return nil, fmt.Errorf("printer: usb transport needs a device path")
		}
		return Serialize(&devicePrinter{path: cfg.USBPath}), nil
	case TypeNetwork:
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: network transport needs host:port")
		}
		return Serialize(NewNetworkPrinter(cfg.Address, cfg.DialTimeout, cfg.WriteTimeout)), nil
	case TypeNone, "":
		return NewNullPrinter(), nil
	}
	return nil, fmt.Errorf("printer: unsupported type %q", cfg.Type)
}

// devicePrinter opens the character device for each job, so a printer that
// was unplugged and replugged keeps working.
type devicePrinter struct {
	path string
}

func (p *devicePrinter) Print(data []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()
	return send(f, data, p.path)
}

func (p *devicePrinter) Close() error { return nil }

func (p *devicePrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *devicePrinter) Describe() string { return TypeUSB + " " + p.path }

// socketPrinter dials a raw TCP port per job.
type socketPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

// NewNetworkPrinter talks to a printer on a raw TCP port. Zero timeouts take
// the package defaults.
func NewNetworkPrinter(address string, dialTimeout, writeTimeout time.Duration) Printer {
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &socketPrinter{address: address, dialTimeout: dialTimeout, writeTimeout: writeTimeout}
}

func (p *socketPrinter) dial() (net.Conn, error) {
	return net.DialTimeout("tcp", p.address, p.dialTimeout)
}

func (p *socketPrinter) Print(data []byte) error {
	conn, err := p.dial()
	if err != nil {
		return fmt.Errorf("printer: dial %s: %w", p.address, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(p.writeTimeout)); err != nil {
		return fmt.Errorf("printer: %s: %w", p.address, err)
	}
	return send(conn, data, p.address)
}

func (p *socketPrinter) Close() error { return nil }

func (p *socketPrinter) IsConnected() bool {
	conn, err := p.dial()
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (p *socketPrinter) Describe() string { return TypeNetwork + " " + p.address }

func send(w io.Writer, data []byte, target string) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("printer: write to %s: %w", target, err)
	}
	return nil
}

type nullPrinter struct{}

// NewNullPrinter accepts every job and reports itself as not connected.
func NewNullPrinter() Printer { return nullPrinter{} }

func (nullPrinter) Print([]byte) error { return nil }
func (nullPrinter) Close() error       { return nil }
func (nullPrinter) IsConnected() bool  { return false }
func (nullPrinter) Describe() string   { return TypeNone }

// serialPrinter holds a lock for the whole job so two receipts never
// interleave on paper.
type serialPrinter struct {
	mu    sync.Mutex
	inner Printer
}

// Serialize wraps p so that Print calls never overlap. Wrapping twice is a no-op.
func Serialize(p Printer) Printer {
	if _, ok := p.(*serialPrinter); ok {
		return p
	}
	return &serialPrinter{inner: p}
}

func (p *serialPrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Print(data)
}

func (p *serialPrinter) Close() error      { return p.inner.Close() }
func (p *serialPrinter) IsConnected() bool { return p.inner.IsConnected() }
func (p *serialPrinter) Describe() string  { return p.inner.Describe() }
