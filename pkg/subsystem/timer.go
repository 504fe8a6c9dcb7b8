package subsystem

import (
	"github.com/jimyag/sdfgen/pkg/sdf"
	"github.com/jimyag/sdfgen/pkg/wire"
)

// Timer is the timer subsystem: no shared memory at all, only a
// notification channel per client carrying the per-client id. The driver
// PD is forced passive and PPC-capable.
type Timer struct {
	Base

	clientRecords map[*sdf.ProtectionDomain]wire.TimerClient
}

// NewTimer captures phase-1 references and marks the driver passive/pp per
// the timer class's scheduling contract.
func NewTimer(sys *sdf.SystemDescription, driver *sdf.ProtectionDomain) *Timer {
	driver.Passive = true
	return &Timer{
		Base:          NewBase(sys, sys.Arch, driver, driver, nil, nil),
		clientRecords: make(map[*sdf.ProtectionDomain]wire.TimerClient),
	}
}

// AddClient registers a timer client.
func (t *Timer) AddClient(pd *sdf.ProtectionDomain) error {
	_, err := t.addClient(pd, nil)
	return err
}

// Connect wires a pp channel from every client to the driver. It may be
// called once; a second invocation returns ErrAlreadyConnected.
func (t *Timer) Connect() error {
	if err := t.requireNotConnected(); err != nil {
		return err
	}

	for _, c := range t.clients {
		id, err := t.Driver.AllocateChannelID(nil)
		if err != nil {
			return err
		}
		clientID, err := c.PD.AllocateChannelID(nil)
		if err != nil {
			return err
		}
		ch, err := t.Sys.AddChannel(
			t.Driver, sdf.ChannelEndOptions{ID: &id, PPC: true},
			c.PD, sdf.ChannelEndOptions{ID: &clientID, PPC: true},
		)
		if err != nil {
			return err
		}
		t.clientRecords[c.PD] = wire.TimerClient{ID: ch.B.ID}
	}

	t.connected = true
	return nil
}

// SerialiseConfig emits one client record per participant.
func (t *Timer) SerialiseConfig(outDir string, debug bool) error {
	if !t.connected {
		return ErrNotConnected
	}
	for pd, rec := range t.clientRecords {
		if err := wire.Emit(outDir, "timer", pd.Name, rec, debug); err != nil {
			return err
		}
	}
	return nil
}
