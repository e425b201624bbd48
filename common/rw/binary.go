// Package rw is the little-endian binary codec shared by the container and
// voxel tile serialization. Readers panic on truncated input; callers at the
// decode boundary recover that into an error.
package rw

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

type ReaderWriter struct {
	order   binary.ByteOrder
	dataBuf []byte
	rw      bytes.Buffer
}

func NewWriter() *ReaderWriter {
	return &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
}

func NewReader(data []byte) *ReaderWriter {
	d := &ReaderWriter{order: binary.LittleEndian, dataBuf: make([]byte, 8)}
	d.rw.Write(data)
	return d
}

func (w *ReaderWriter) ReadUInt8() uint8 {
	res, err := w.rw.ReadByte()
	if err != nil {
		panic(err)
	}
	return res
}

func (w *ReaderWriter) ReadUInt16() uint16 {
	w.readFull(w.dataBuf[:2])
	return w.order.Uint16(w.dataBuf[:2])
}

func (w *ReaderWriter) ReadUInt16s(value []uint16) {
	for i := range value {
		value[i] = w.ReadUInt16()
	}
}

func (w *ReaderWriter) ReadUInt32() uint32 {
	w.readFull(w.dataBuf[:4])
	return w.order.Uint32(w.dataBuf[:4])
}

func (w *ReaderWriter) ReadInt32() int32 {
	return int32(w.ReadUInt32())
}

func (w *ReaderWriter) ReadFloat32() float32 {
	return math.Float32frombits(w.ReadUInt32())
}

func (w *ReaderWriter) ReadFloat32s(value []float32) {
	for i := range value {
		value[i] = w.ReadFloat32()
	}
}

func (w *ReaderWriter) ReadBytes(value []byte) {
	w.readFull(value)
}

func (w *ReaderWriter) readFull(buf []byte) {
	if len(buf) == 0 {
		return
	}
	n, err := w.rw.Read(buf)
	if err != nil {
		panic(err)
	}
	if n != len(buf) {
		panic(io.ErrUnexpectedEOF)
	}
}

func (w *ReaderWriter) WriteUInt8(v uint8) {
	w.rw.WriteByte(v)
}

func (w *ReaderWriter) WriteUInt16(v uint16) {
	w.order.PutUint16(w.dataBuf, v)
	w.rw.Write(w.dataBuf[:2])
}

func (w *ReaderWriter) WriteUInt16s(v []uint16) {
	for _, tmp := range v {
		w.WriteUInt16(tmp)
	}
}

func (w *ReaderWriter) WriteUInt32(v uint32) {
	w.order.PutUint32(w.dataBuf, v)
	w.rw.Write(w.dataBuf[:4])
}

func (w *ReaderWriter) WriteInt32(v int32) {
	w.WriteUInt32(uint32(v))
}

func (w *ReaderWriter) WriteFloat32(v float32) {
	w.WriteUInt32(math.Float32bits(v))
}

func (w *ReaderWriter) WriteFloat32s(v []float32) {
	for _, tmp := range v {
		w.WriteFloat32(tmp)
	}
}

func (w *ReaderWriter) WriteBytes(v []byte) {
	w.rw.Write(v)
}

// Offset reports the number of bytes written so far. Record it before
// writing a placeholder length and hand it to PatchInt32 once the payload
// size is known.
func (w *ReaderWriter) Offset() int {
	return w.rw.Len()
}

// PatchInt32 overwrites a previously written 4-byte slot in place. Used for
// length fields that are only known after their payload has been produced.
func (w *ReaderWriter) PatchInt32(offset int, v int32) {
	w.order.PutUint32(w.rw.Bytes()[offset:offset+4], uint32(v))
}

func (w *ReaderWriter) Skip(size int) {
	w.rw.Next(size)
}

func (w *ReaderWriter) GetWriteBytes() (res []byte) {
	res = w.rw.Bytes()
	return res
}

func (w *ReaderWriter) Size() int {
	return w.rw.Len()
}
