package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzDecode(f *testing.F) {
	for class := range 0x10 {
		f.Add(uint16(class<<12) | 0x0123)
		f.Add(uint16(class<<12) | 0x0fff)
	}
	f.Add(uint16(0x00e0))
	f.Add(uint16(0x00ee))

	f.Fuzz(func(t *testing.T, word uint16) {
		assert := assert.New(t)

		op := Decode(word)
		assert.Equal(op, Decode(word))
		assert.Equal(word, op.Encode())

		class, x, y, d := Nibbles(word)
		text := op.String()

		switch op.Kind {
		case OP_UNKNOWN:
			assert.Equal(word, op.Word, text)
		case OP_CLEAR, OP_RETURN:
			assert.Equal(uint8(0), class, text)
		case OP_JUMP, OP_CALL, OP_SET_INDEX, OP_JUMP_ADD_V0:
			assert.Equal(word&0xfff, op.Addr, text)
		case OP_DRAW:
			assert.Equal(x, op.X, text)
			assert.Equal(y, op.Y, text)
			assert.Equal(d, op.N, text)
		case OP_SKIP_EQ_IMM, OP_SKIP_NE_IMM, OP_SET_IMM, OP_ADD_IMM, OP_RANDOM:
			assert.Equal(x, op.X, text)
			assert.Equal(uint8(word), op.Byte, text)
		default:
			assert.Equal(x, op.X, text)
			if class == 0x5 || class == 0x8 || class == 0x9 {
				assert.Equal(y, op.Y, text)
			} else {
				assert.Equal(uint8(0xf), class, text)
			}
		}

		cpu := newTestCpu(t)
		cpu.Pc = 0x300
		cpu.Index = 0x400
		cpu.Stack.Push(0x302)
		before := *cpu
		err := cpu.Execute(op)
		if err != nil {
			t.Fatalf("%v: %v", text, err)
		}
		if op.Kind == OP_UNKNOWN {
			assert.Equal(before.Pc, cpu.Pc, text)
			assert.Equal(before.Register, cpu.Register, text)
			assert.Equal(before.Index, cpu.Index, text)
		}
	})
}

func FuzzExecute(f *testing.F) {
	for disc := range 0x10 {
		f.Add(uint8(1), uint8(2), uint8(disc), uint8(0xff), uint8(0x01))
		f.Add(uint8(0xf), uint8(3), uint8(disc), uint8(0x80), uint8(0x81))
	}

	f.Fuzz(func(t *testing.T, x uint8, y uint8, disc uint8, vx uint8, vy uint8) {
		assert := assert.New(t)

		x &= 0xf
		y &= 0xf
		disc &= 0xf
		word := 0x8000 | uint16(x)<<8 | uint16(y)<<4 | uint16(disc)
		op := Decode(word)
		text := op.String()

		cpu := newTestCpu(t)
		for n := range cpu.Register {
			cpu.Register[n] = uint8(0xa0 + n)
		}
		cpu.Register[y] = vy
		cpu.Register[x] = vx
		// x == y aliases.
		vy = cpu.Register[y]
		before := cpu.Register

		err := cpu.Execute(op)
		assert.NoError(err, text)

		expect := before
		flag := func(ok bool) {
			expect[FLAG_REGISTER] = 0
			if ok {
				expect[FLAG_REGISTER] = 1
			}
		}

		switch op.Kind {
		case OP_COPY:
			expect[x] = vy
		case OP_OR:
			expect[x] = vx | vy
		case OP_AND:
			expect[x] = vx & vy
		case OP_XOR:
			expect[x] = vx ^ vy
		case OP_ADD_CARRY:
			expect[x] = uint8(int(vx) + int(vy))
			flag(int(vx)+int(vy) > 255)
		case OP_SUB_BORROW:
			expect[x] = uint8(int(vx) - int(vy))
			flag(vx >= vy)
		case OP_SUBN_BORROW:
			expect[x] = uint8(int(vy) - int(vx))
			flag(vy >= vx)
		case OP_SHIFT_RIGHT:
			expect[x] = vy / 2
			flag(vy%2 == 1)
		case OP_SHIFT_LEFT:
			expect[x] = uint8(int(vy) * 2)
			flag(vy >= 0x80)
		case OP_UNKNOWN:
			// pass
		default:
			t.Fatalf("%v: unexpected kind %v", text, op.Kind)
		}

		assert.Equal(expect, cpu.Register, text)
		assert.Equal(uint16(0x200), cpu.Pc, text)
	})
}
