package common

// busInt
type Ram struct {
	ram []byte
}

func (r *Ram) Init(size int) {
	r.ram = make([]byte, size)
}

func (r *Ram) InitNfill(size int, fill uint8) {
	r.Init(size)
	for i := range r.ram {
		r.ram[i] = fill
	}
}

func (r *Ram) Size() int {
	return len(r.ram)
}

func (r *Ram) Read8(addr uint16) uint8 {
	return r.ram[addr]
}
func (r *Ram) Write8(addr uint16, val uint8) {
	r.ram[addr] = val
}

// little endian
func (r *Ram) Read16(addr uint16) uint16 {
	return uint16(r.Read8(addr)) | uint16(r.Read8(addr+1))<<8
}
func (r *Ram) Write16(addr uint16, val uint16) {
	r.Write8(addr, uint8(val&0xFF))
	r.Write8(addr+1, uint8((val&0xFF00)>>8))
}

// Snapshot copies the backing store, eg for battery saves.
func (r *Ram) Snapshot() []byte {
	data := make([]byte, len(r.ram))
	copy(data, r.ram)
	return data
}

// Restore seeds the backing store, short or long inputs are clipped.
func (r *Ram) Restore(data []byte) {
	copy(r.ram, data)
}

func (r *Ram) Serialise(s Serialiser) error {
	return s.Serialise(r.ram)
}
func (r *Ram) DeSerialise(s Serialiser) error {
	return s.DeSerialise(&r.ram)
}
