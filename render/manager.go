// Package render turns decoded grid map messages into colorized RGBA rasters
// together with the transform and blend state a display surface needs to
// draw them. One render state exists per topic; topics are fully
// independent.
package render

import (
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"google.golang.org/protobuf/types/known/structpb"

	"go.viam.com/gridview/grid"
)

// CodeShapeError keys the standing diagnostic raised when a message's layer
// shapes disagree with its declared grid size.
const CodeShapeError = "grid_shape"

// Diagnostics receives standing per-topic problem reports. Implementations
// must treat (topic, code) as a key: a repeated Add replaces the previous
// message rather than accumulating.
type Diagnostics interface {
	AddDiagnostic(topic, code, message string)
	ClearDiagnostic(topic, code string)
}

// Surface is the downstream display layer. It only ever receives finished
// values: a dirty raster to re-upload, a transparency flag when the blend
// decision flips, and the current display transform. The Manager never
// issues drawing calls.
type Surface interface {
	UploadRaster(topic string, r *Raster)
	SetTransparency(topic string, enabled bool)
	SetTransform(topic string, tf Transform)
	Remove(topic string) error
}

// SettingsStore supplies the effective display-setting overrides for a
// topic, consulted once when the topic first appears.
type SettingsStore interface {
	Get(topic string) map[string]interface{}
}

// Manager drives the decode, validate, colorize pipeline for every inbound
// grid message and owns the per-topic render state. Methods are safe for
// concurrent use, though the expected caller is a single message loop.
type Manager struct {
	logger golog.Logger

	mu     sync.Mutex
	topics map[string]*renderState
	diags  map[string]string

	diagnostics Diagnostics
	surface     Surface
	store       SettingsStore
}

// Option configures a Manager's optional collaborators.
type Option func(*Manager)

// WithDiagnostics wires a diagnostics sink.
func WithDiagnostics(d Diagnostics) Option {
	return func(m *Manager) { m.diagnostics = d }
}

// WithSurface wires the display surface to notify on updates.
func WithSurface(s Surface) Option {
	return func(m *Manager) { m.surface = s }
}

// WithSettingsStore wires the source of per-topic setting overrides.
func WithSettingsStore(s SettingsStore) Option {
	return func(m *Manager) { m.store = s }
}

// NewManager returns a Manager with no topics yet.
func NewManager(logger golog.Logger, opts ...Option) *Manager {
	m := &Manager{
		logger: logger,
		topics: map[string]*renderState{},
		diags:  map[string]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnMessage ingests one grid map message for a topic. A message that fails
// shape validation abandons the update before any state is touched: the
// previously rendered raster stays as-is, a standing diagnostic is raised,
// and the error is returned. Failures never cross topics.
func (m *Manager) OnMessage(topic string, msg *structpb.Struct, receiveTime time.Time) error {
	g := grid.Decode(msg)
	width, height := g.Metadata.Dimensions()
	if err := grid.ValidateShapes(width, height, g.Layers); err != nil {
		m.reportShapeError(topic, err)
		return errors.Wrapf(err, "grid message on %q", topic)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearShapeErrorLocked(topic)

	state, ok := m.topics[topic]
	if !ok {
		state = newRenderState(m.initialSettings(topic))
		m.topics[topic] = state
	}
	state.grid = g
	state.receiveTime = receiveTime
	state.recolor(m.logger, topic)
	state.transform = transformFor(g)
	m.notifyLocked(topic, state)
	return nil
}

// OnSettingsChanged applies new display settings for a topic, recoloring
// the existing grid without re-decoding it. The surface is told about the
// transparency flag only when it actually flips, so unchanged settings are
// free of pipeline state churn.
func (m *Manager) OnSettingsChanged(topic string, overrides map[string]interface{}) error {
	settings, err := Resolve(overrides)
	if err != nil {
		return errors.Wrapf(err, "settings for %q", topic)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.topics[topic]
	if !ok {
		// no message seen yet; hold the settings for when one arrives
		m.topics[topic] = newRenderState(settings)
		return nil
	}

	state.settings = settings
	if transparent := needsTransparency(settings); transparent != state.transparency {
		state.transparency = transparent
		if m.surface != nil && state.announced {
			m.surface.SetTransparency(topic, transparent)
		}
	}
	if state.grid == nil {
		return nil
	}
	state.recolor(m.logger, topic)
	if m.surface != nil {
		m.surface.UploadRaster(topic, state.raster)
	}
	return nil
}

// Raster returns the current colorized raster for a topic.
func (m *Manager) Raster(topic string) (*Raster, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.topics[topic]
	if !ok || state.raster == nil {
		return nil, false
	}
	return state.raster, true
}

// Transform returns the current display transform for a topic.
func (m *Manager) Transform(topic string) (Transform, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.topics[topic]
	if !ok || state.grid == nil {
		return Transform{}, false
	}
	return state.transform, true
}

// ReceiveTime returns when the topic's active grid arrived. Frame
// resolution wants this rather than the message stamp when the topic is
// frame-locked.
func (m *Manager) ReceiveTime(topic string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.topics[topic]
	if !ok || state.grid == nil {
		return time.Time{}, false
	}
	return state.receiveTime, true
}

// Settings returns the topic's effective display settings.
func (m *Manager) Settings(topic string) (DisplaySettings, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.topics[topic]
	if !ok {
		return DisplaySettings{}, false
	}
	return state.settings, true
}

// Dispose releases a topic's render state, clears its standing diagnostic,
// and tells the surface to drop its resources.
func (m *Manager) Dispose(topic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposeLocked(topic)
}

// Close disposes every topic.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var err error
	for topic := range m.topics {
		err = multierr.Combine(err, m.disposeLocked(topic))
	}
	// standing diagnostics can outlive render state when a topic never
	// produced a valid message
	for topic := range m.diags {
		m.clearShapeErrorLocked(topic)
	}
	return err
}

func (m *Manager) disposeLocked(topic string) error {
	m.clearShapeErrorLocked(topic)
	if _, ok := m.topics[topic]; !ok {
		return nil
	}
	delete(m.topics, topic)
	if m.surface != nil {
		if err := m.surface.Remove(topic); err != nil {
			return errors.Wrapf(err, "removing %q from surface", topic)
		}
	}
	return nil
}

func (m *Manager) initialSettings(topic string) DisplaySettings {
	if m.store == nil {
		return DefaultSettings()
	}
	settings, err := Resolve(m.store.Get(topic))
	if err != nil {
		m.logger.Errorw("stored settings invalid; using defaults", "topic", topic, "error", err)
		return DefaultSettings()
	}
	return settings
}

// notifyLocked pushes a finished update to the surface. The transparency
// flag is sent once on first contact and afterwards only from the settings
// path when it changes.
func (m *Manager) notifyLocked(topic string, state *renderState) {
	if m.surface == nil {
		state.announced = true
		return
	}
	if !state.announced {
		m.surface.SetTransparency(topic, state.transparency)
		state.announced = true
	}
	m.surface.UploadRaster(topic, state.raster)
	m.surface.SetTransform(topic, state.transform)
}

// reportShapeError raises the topic's standing shape diagnostic. Identical
// consecutive failures are not re-emitted.
func (m *Manager) reportShapeError(topic string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	message := err.Error()
	if previous, ok := m.diags[topic]; ok && previous == message {
		return
	}
	m.diags[topic] = message
	m.logger.Errorw("invalid grid message", "topic", topic, "error", err)
	if m.diagnostics != nil {
		m.diagnostics.AddDiagnostic(topic, CodeShapeError, message)
	}
}

func (m *Manager) clearShapeErrorLocked(topic string) {
	if _, ok := m.diags[topic]; !ok {
		return
	}
	delete(m.diags, topic)
	if m.diagnostics != nil {
		m.diagnostics.ClearDiagnostic(topic, CodeShapeError)
	}
}
