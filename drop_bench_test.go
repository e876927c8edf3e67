package cactusref_test

import (
	"strconv"
	"testing"

	"github.com/artichoke/cactusref"
	"github.com/artichoke/cactusref/testutils"
)

func BenchmarkDropSingle(b *testing.B) {
	cases := map[string]func() func(){
		"uint64": func() func() {
			r := cactusref.New(uint64(0))
			return r.Drop
		},
		"string": func() func() {
			r := cactusref.New("bench")
			return r.Drop
		},
		"struct": func() func() {
			r := cactusref.New(testutils.Node{})
			return r.Drop
		},
	}
	for name, build := range cases {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				drop := build()
				b.StartTimer()
				drop()
			}
		})
	}
}

func benchDropSizes(b *testing.B, build func(*testutils.DropTally, int) *cactusref.Rc[testutils.Node], sizes ...int) {
	for _, size := range sizes {
		size := size
		b.Run(strconv.Itoa(size)+" nodes", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				head := build(nil, size)
				b.StartTimer()
				head.Drop()
			}
		})
	}
}

func BenchmarkDropChainNoAdoptions(b *testing.B) {
	benchDropSizes(b, testutils.Chain, 10, 20, 30, 40)
}

func BenchmarkDropChainWithAdoptions(b *testing.B) {
	benchDropSizes(b, testutils.ChainAdopted, 10, 20, 30, 40)
}

func BenchmarkDropCircularGraph(b *testing.B) {
	benchDropSizes(b, testutils.CircularGraph, 10, 20, 30, 40)
}

func BenchmarkDropFullyConnectedGraph(b *testing.B) {
	for _, size := range []int{5, 10} {
		size := size
		b.Run(strconv.Itoa(size)+" nodes", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				nodes := testutils.FullyConnected(nil, size)
				b.StartTimer()
				for _, n := range nodes {
					n.Drop()
				}
			}
		})
	}
}

func BenchmarkAdoptUnadopt(b *testing.B) {
	x := cactusref.New(testutils.Node{})
	y := cactusref.New(testutils.Node{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cactusref.Adopt(x, y)
		cactusref.Unadopt(x, y)
	}
	b.StopTimer()
	x.Drop()
	y.Drop()
}
