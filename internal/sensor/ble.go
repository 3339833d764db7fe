package sensor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

// BLEConnection streams readings from a real BLE heart-rate device.
// It scans for a device advertising the Heart Rate Service (or a
// specific MAC when configured), connects, and subscribes to the
// Heart Rate Measurement characteristic.
type BLEConnection struct {
	adapter *bluetooth.Adapter
	address string // optional MAC filter, empty = first HR device found
	emit    func(Reading)

	mu        sync.Mutex
	device    bluetooth.Device
	connected bool
	running   bool
}

// NewBLEConnection creates a connection using the default adapter.
// Readings are delivered on the BLE notification goroutine via emit.
func NewBLEConnection(address string, emit func(Reading)) *BLEConnection {
	return &BLEConnection{
		adapter: bluetooth.DefaultAdapter,
		address: address,
		emit:    emit,
	}
}

// Initialize blocks until the device is connected and notifications
// are enabled. A failure leaves the connection stopped and safe to
// Initialize again.
func (c *BLEConnection) Initialize(ctx context.Context) error {
	if err := c.adapter.Enable(); err != nil {
		return fmt.Errorf("enable BLE adapter: %w (try sudo or setcap cap_net_admin+ep)", err)
	}

	result, err := c.find(ctx)
	if err != nil {
		return err
	}

	device, err := c.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("connect %s: %w", result.Address.String(), err)
	}

	svcs, err := device.DiscoverServices([]bluetooth.UUID{bluetooth.ServiceUUIDHeartRate})
	if err != nil || len(svcs) == 0 {
		_ = device.Disconnect()
		return fmt.Errorf("discover heart rate service: %w", err)
	}

	chars, err := svcs[0].DiscoverCharacteristics([]bluetooth.UUID{bluetooth.CharacteristicUUIDHeartRateMeasurement})
	if err != nil || len(chars) == 0 {
		_ = device.Disconnect()
		return fmt.Errorf("discover heart rate measurement characteristic: %w", err)
	}

	if err := chars[0].EnableNotifications(c.onNotify); err != nil {
		_ = device.Disconnect()
		return fmt.Errorf("enable notifications: %w", err)
	}

	c.mu.Lock()
	c.device = device
	c.connected = true
	c.running = true
	c.mu.Unlock()
	return nil
}

func (c *BLEConnection) onNotify(buf []byte) {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if !running {
		return
	}

	r, err := ParseMeasurement(buf, time.Now())
	if err != nil {
		return // malformed packet, wait for the next one
	}
	c.emit(r)
}

// find scans until a matching device appears or ctx is done.
func (c *BLEConnection) find(ctx context.Context) (bluetooth.ScanResult, error) {
	found := make(chan bluetooth.ScanResult, 1)
	scanErr := make(chan error, 1)

	go func() {
		err := c.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if c.address != "" {
				if result.Address.String() != c.address {
					return
				}
			} else if !result.HasServiceUUID(bluetooth.ServiceUUIDHeartRate) {
				return
			}
			_ = adapter.StopScan()
			select {
			case found <- result:
			default:
			}
		})
		if err != nil {
			scanErr <- err
		}
	}()

	select {
	case result := <-found:
		return result, nil
	case err := <-scanErr:
		return bluetooth.ScanResult{}, fmt.Errorf("scan: %w", err)
	case <-ctx.Done():
		_ = c.adapter.StopScan()
		return bluetooth.ScanResult{}, ctx.Err()
	}
}

// Stop halts notification delivery and disconnects. Idempotent.
func (c *BLEConnection) Stop() {
	c.mu.Lock()
	wasConnected := c.connected
	device := c.device
	c.running = false
	c.connected = false
	c.mu.Unlock()

	_ = c.adapter.StopScan()
	if wasConnected {
		_ = device.Disconnect()
	}
}
