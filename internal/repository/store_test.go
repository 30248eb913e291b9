package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/termolab/pyrofit/internal/domain/model"
	"github.com/termolab/pyrofit/internal/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func run(id string, residual float64) model.FitResult {
	return model.FitResult{RunID: id, Residual: residual, Status: model.StatusConverged}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemoryStore()

		Convey("When looking up an unknown run", func() {
			_, err := store.Get(ctx, "nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When asking for a non-positive number of recent runs", func() {
			_, err := store.Recent(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("When storing runs", func() {
			store.Put(ctx, run("a", 3))
			store.Put(ctx, run("b", 2))
			store.Put(ctx, run("c", 1))

			Convey("Then they can be fetched by id", func() {
				got, err := store.Get(ctx, "b")
				So(err, ShouldBeNil)
				So(got.Residual, ShouldEqual, 2)
				So(store.Count(ctx), ShouldEqual, 3)
			})

			Convey("And Recent returns newest first", func() {
				recent, err := store.Recent(ctx, 2)
				So(err, ShouldBeNil)
				So(len(recent), ShouldEqual, 2)
				So(recent[0].RunID, ShouldEqual, "c")
				So(recent[1].RunID, ShouldEqual, "b")
			})

			Convey("And re-storing a run id overwrites in place", func() {
				store.Put(ctx, run("b", 9))
				got, _ := store.Get(ctx, "b")
				So(got.Residual, ShouldEqual, 9)
				So(store.Count(ctx), ShouldEqual, 3)
			})
		})
	})

	Convey("Given a store with a small capacity", t, func() {
		store := repository.NewMemoryStore(repository.WithMaxEntries(3))

		for i := 0; i < 5; i++ {
			store.Put(ctx, run(fmt.Sprintf("run-%d", i), float64(i)))
		}

		Convey("Then the oldest runs are evicted", func() {
			So(store.Count(ctx), ShouldEqual, 3)

			_, err := store.Get(ctx, "run-0")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			_, err = store.Get(ctx, "run-1")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			got, err := store.Get(ctx, "run-4")
			So(err, ShouldBeNil)
			So(got.Residual, ShouldEqual, 4)
		})
	})
}
