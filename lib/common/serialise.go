package common

import (
	"encoding/gob"
	"io"
)

// Serialiser walks the console state for save and restore.
type Serialiser interface {
	Serialise(elem ...interface{}) error
	DeSerialise(elem ...interface{}) error
}

// Serialisable devices write themselves through the Serialiser rather
// than exposing their internals to gob directly.
type Serialisable interface {
	Serialise(s Serialiser) error
	DeSerialise(s Serialiser) error
}

func NewSerialiser(rw io.ReadWriter) Serialiser {
	return &gobSerialiser{
		encoder: gob.NewEncoder(rw),
		decoder: gob.NewDecoder(rw),
	}
}

type gobSerialiser struct {
	encoder *gob.Encoder
	decoder *gob.Decoder
}

func (g *gobSerialiser) Serialise(elems ...interface{}) error {
	for _, elem := range elems {
		if s, ok := elem.(Serialisable); ok {
			if err := s.Serialise(g); err != nil {
				return err
			}
			continue
		}
		if err := g.encoder.Encode(elem); err != nil {
			return err
		}
	}
	return nil
}

func (g *gobSerialiser) DeSerialise(elems ...interface{}) error {
	for _, elem := range elems {
		if s, ok := elem.(Serialisable); ok {
			if err := s.DeSerialise(g); err != nil {
				return err
			}
			continue
		}
		if err := g.decoder.Decode(elem); err != nil {
			return err
		}
	}
	return nil
}
