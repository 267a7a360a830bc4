// Profiling:
// go build ./profile/entities
// ./entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

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

func main() {
	count := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w, err := archecs.NewWorld(archecs.DefaultConfig())
		if err != nil {
			panic(err)
		}
		archecs.Register[comp1](w, "comp1")
		c2, _ := archecs.Register[comp2](w, "comp2")
		query := archecs.NewFilter1[comp1](w)
		entities := make([]archecs.EntityID, 0, numEntities)

		for range iters {
			ids, err := w.CreateEntities(numEntities)
			if err != nil {
				panic(err)
			}
			for _, e := range ids {
				archecs.Add(w, e, comp1{V: 1})
			}
			for _, e := range ids[:len(ids)/2] {
				w.AddComponent(e, c2, nil)
			}
			entities = entities[:0]
			query.Reset()
			for query.Next() {
				entities = append(entities, query.Entity())
				query.Get().W += query.Get().V
			}
			w.DestroyEntities(entities)
		}
		w.Destroy()
	}
}
