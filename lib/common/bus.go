package common

type BusInt interface {
	// Data Operations
	Read8(uint16) uint8
	Write8(uint16, uint8)
}

type BusExtInt interface {
	// Data Operations
	Read8(uint16) uint8
	Write8(uint16, uint8)
	Read16(uint16) uint16
	Write16(uint16, uint16)
}

// Bus hands each device a view of the address space. The views are
// stateless decode adapters owned by the console, so all machine state
// stays in one place.
type Bus struct {
	views []BusView
}

type BusView struct {
	BusInt
}

func (b *BusView) Read8(addr uint16) uint8 {
	return b.BusInt.Read8(addr)
}

// little endian
func (b *BusView) Read16(addr uint16) uint16 {
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}

func (b *BusView) Write8(addr uint16, val uint8) {
	b.BusInt.Write8(addr, val)
}
func (b *BusView) Write16(addr uint16, val uint16) {
	b.Write8(addr, uint8(val&0xFF))
	b.Write8(addr+1, uint8((val&0xFF00)>>8))
}

func (b *Bus) Init(nViews int) {
	b.views = make([]BusView, nViews)
}

func (b *Bus) Connect(viewId int, busInt BusInt) {
	b.views[viewId].BusInt = busInt
}

func (b *Bus) GetBusInt(viewId int) *BusView {
	return &b.views[viewId]
}
