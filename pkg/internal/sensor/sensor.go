// Package sensor provides the callback registry components use to surface
// lifecycle and data-flow events to user code, keeping UI concerns out of the
// acquisition components themselves.
package sensor

import (
	"sync"
	"time"

	"github.com/autolab/resonance/pkg/internal/types"
	"github.com/autolab/resonance/pkg/internal/utils"
)

// Sensor implements types.Sensor as slices of callbacks per event.
type Sensor[T any] struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	OnStart                []func(types.ComponentMetadata)
	OnStop                 []func(types.ComponentMetadata)
	OnElementProcessed     []func(types.ComponentMetadata, T)
	OnError                []func(types.ComponentMetadata, error)
	OnReconnectAttempt     []func(types.ComponentMetadata, int, time.Duration)
	OnConnectionLost       []func(types.ComponentMetadata, int)
	OnRecordingStateChange []func(types.ComponentMetadata, bool)
	OnAutoStop             []func(types.ComponentMetadata, T)
	OnDrain                []func(types.ComponentMetadata, int)
	OnSensorError          []func(types.ComponentMetadata, types.Reading)

	callbackLock sync.Mutex
	loggers      []types.Logger
	loggersLock  sync.Mutex
}

// NewSensor constructs a Sensor with optional configuration.
func NewSensor[T any](options ...types.Option[types.Sensor[T]]) types.Sensor[T] {
	s := &Sensor[T]{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "SENSOR",
		},
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	return s
}

// ConnectLogger attaches one or more loggers.
func (s *Sensor[T]) ConnectLogger(loggers ...types.Logger) {
	if len(loggers) == 0 {
		return
	}
	s.loggersLock.Lock()
	s.loggers = append(s.loggers, loggers...)
	s.loggersLock.Unlock()
}

// GetComponentMetadata returns metadata (ID, Name, Type).
func (s *Sensor[T]) GetComponentMetadata() types.ComponentMetadata {
	s.metadataLock.Lock()
	defer s.metadataLock.Unlock()
	return s.componentMetadata
}

// SetComponentMetadata sets Name and ID.
func (s *Sensor[T]) SetComponentMetadata(name string, id string) {
	s.metadataLock.Lock()
	s.componentMetadata.Name = name
	s.componentMetadata.ID = id
	s.metadataLock.Unlock()
}

func (s *Sensor[T]) RegisterOnStart(callback ...func(types.ComponentMetadata)) {
	s.callbackLock.Lock()
	s.OnStart = append(s.OnStart, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor[T]) InvokeOnStart(cm types.ComponentMetadata) {
	for _, cb := range s.snapshotMeta(func() []func(types.ComponentMetadata) { return s.OnStart }) {
		cb(cm)
	}
}

func (s *Sensor[T]) RegisterOnStop(callback ...func(types.ComponentMetadata)) {
	s.callbackLock.Lock()
	s.OnStop = append(s.OnStop, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor[T]) InvokeOnStop(cm types.ComponentMetadata) {
	for _, cb := range s.snapshotMeta(func() []func(types.ComponentMetadata) { return s.OnStop }) {
		cb(cm)
	}
}

func (s *Sensor[T]) RegisterOnElementProcessed(callback ...func(types.ComponentMetadata, T)) {
	s.callbackLock.Lock()
	s.OnElementProcessed = append(s.OnElementProcessed, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor[T]) InvokeOnElementProcessed(cm types.ComponentMetadata, elem T) {
	s.callbackLock.Lock()
	callbacks := append([]func(types.ComponentMetadata, T){}, s.OnElementProcessed...)
	s.callbackLock.Unlock()
	for _, cb := range callbacks {
		cb(cm, elem)
	}
}

func (s *Sensor[T]) RegisterOnError(callback ...func(types.ComponentMetadata, error)) {
	s.callbackLock.Lock()
	s.OnError = append(s.OnError, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor[T]) InvokeOnError(cm types.ComponentMetadata, err error) {
	s.callbackLock.Lock()
	callbacks := append([]func(types.ComponentMetadata, error){}, s.OnError...)
	s.callbackLock.Unlock()
	for _, cb := range callbacks {
		cb(cm, err)
	}
}

func (s *Sensor[T]) RegisterOnReconnectAttempt(callback ...func(types.ComponentMetadata, int, time.Duration)) {
	s.callbackLock.Lock()
	s.OnReconnectAttempt = append(s.OnReconnectAttempt, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor[T]) InvokeOnReconnectAttempt(cm types.ComponentMetadata, attempt int, delay time.Duration) {
	s.callbackLock.Lock()
	callbacks := append([]func(types.ComponentMetadata, int, time.Duration){}, s.OnReconnectAttempt...)
	s.callbackLock.Unlock()
	for _, cb := range callbacks {
		cb(cm, attempt, delay)
	}
}

func (s *Sensor[T]) RegisterOnConnectionLost(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnConnectionLost = append(s.OnConnectionLost, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor[T]) InvokeOnConnectionLost(cm types.ComponentMetadata, attempts int) {
	s.callbackLock.Lock()
	callbacks := append([]func(types.ComponentMetadata, int){}, s.OnConnectionLost...)
	s.callbackLock.Unlock()
	for _, cb := range callbacks {
		cb(cm, attempts)
	}
}

func (s *Sensor[T]) RegisterOnRecordingStateChange(callback ...func(types.ComponentMetadata, bool)) {
	s.callbackLock.Lock()
	s.OnRecordingStateChange = append(s.OnRecordingStateChange, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor[T]) InvokeOnRecordingStateChange(cm types.ComponentMetadata, recording bool) {
	s.callbackLock.Lock()
	callbacks := append([]func(types.ComponentMetadata, bool){}, s.OnRecordingStateChange...)
	s.callbackLock.Unlock()
	for _, cb := range callbacks {
		cb(cm, recording)
	}
}

func (s *Sensor[T]) RegisterOnAutoStop(callback ...func(types.ComponentMetadata, T)) {
	s.callbackLock.Lock()
	s.OnAutoStop = append(s.OnAutoStop, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor[T]) InvokeOnAutoStop(cm types.ComponentMetadata, elem T) {
	s.callbackLock.Lock()
	callbacks := append([]func(types.ComponentMetadata, T){}, s.OnAutoStop...)
	s.callbackLock.Unlock()
	for _, cb := range callbacks {
		cb(cm, elem)
	}
}

func (s *Sensor[T]) RegisterOnDrain(callback ...func(types.ComponentMetadata, int)) {
	s.callbackLock.Lock()
	s.OnDrain = append(s.OnDrain, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor[T]) InvokeOnDrain(cm types.ComponentMetadata, count int) {
	s.callbackLock.Lock()
	callbacks := append([]func(types.ComponentMetadata, int){}, s.OnDrain...)
	s.callbackLock.Unlock()
	for _, cb := range callbacks {
		cb(cm, count)
	}
}

func (s *Sensor[T]) RegisterOnSensorError(callback ...func(types.ComponentMetadata, types.Reading)) {
	s.callbackLock.Lock()
	s.OnSensorError = append(s.OnSensorError, callback...)
	s.callbackLock.Unlock()
}

func (s *Sensor[T]) InvokeOnSensorError(cm types.ComponentMetadata, reading types.Reading) {
	s.callbackLock.Lock()
	callbacks := append([]func(types.ComponentMetadata, types.Reading){}, s.OnSensorError...)
	s.callbackLock.Unlock()
	for _, cb := range callbacks {
		cb(cm, reading)
	}
}

func (s *Sensor[T]) snapshotMeta(get func() []func(types.ComponentMetadata)) []func(types.ComponentMetadata) {
	s.callbackLock.Lock()
	defer s.callbackLock.Unlock()
	return append([]func(types.ComponentMetadata){}, get()...)
}
