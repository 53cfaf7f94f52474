package common

import (
	"crypto/md5"
	"log"
)

//	busInt
type Rom struct {
	rom []byte

	writable bool
}

func (r *Rom) Read8(addr uint16) uint8 {
	return r.rom[addr]
}

// Read8w addresses beyond the 16bit bus, for banked access.
func (r *Rom) Read8w(addr uint32) uint8 {
	return r.rom[addr]
}

// little endian
func (r *Rom) Read16(addr uint16) uint16 {
	return uint16(r.Read8(addr)) | uint16(r.Read8(addr+1))<<8
}

func (r *Rom) Write8(addr uint16, val uint8) {
	r.Write8w(uint32(addr), val)
}
func (r *Rom) Write8w(addr uint32, val uint8) {
	if !r.writable {
		// some games poke chr rom, drop it like the hardware does
		log.Printf("rom: dropping write to read only address 0x%04x", addr)
		return
	}
	r.rom[addr] = val
}

func (r *Rom) Size() int {
	return len(r.rom)
}

func (r *Rom) Hash() [md5.Size]byte {
	return md5.Sum(r.rom)
}

func (r *Rom) Init(size int, writable bool) {
	r.rom = make([]byte, size)
	r.writable = writable
}

// InitData takes over the given bytes as the rom contents.
func (r *Rom) InitData(data []byte, writable bool) {
	r.rom = data
	r.writable = writable
}

func (r *Rom) Serialise(s Serialiser) error {
	return s.Serialise(r.rom)
}
func (r *Rom) DeSerialise(s Serialiser) error {
	return s.DeSerialise(&r.rom)
}
