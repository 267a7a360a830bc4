// Profiling:
// go build ./profile/query
// ./query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/edwinsyarief/archecs"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	entities := 100000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w, err := archecs.NewWorld(archecs.DefaultConfig())
		if err != nil {
			panic(err)
		}
		c1, _ := archecs.Register[comp1](w, "comp1")
		c2, _ := archecs.Register[comp2](w, "comp2")
		c3, _ := archecs.Register[comp3](w, "comp3")
		b, err := archecs.NewBuilder(w, c1, c2, c3)
		if err != nil {
			panic(err)
		}
		if _, err := b.NewEntities(numEntities); err != nil {
			panic(err)
		}
		q := archecs.NewQuery([]archecs.ComponentID{c1, c2}, nil)

		for range iters {
			w.EachChunk(q, func(_ *archecs.Archetype, c *archecs.Chunk) {
				xs := archecs.ColumnOf[comp1](c, c1)
				ys := archecs.ColumnOf[comp2](c, c2)
				for i := range xs {
					xs[i].V += ys[i].V
					xs[i].W += ys[i].W
				}
			})
		}
		w.Destroy()
	}
}
