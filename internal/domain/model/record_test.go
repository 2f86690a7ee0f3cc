package model_test

import (
	"testing"

	"github.com/okian/assay/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCollection(t *testing.T) {
	Convey("Given records handed to a new collection", t, func() {
		records := []model.Record{
			{EntityName: "Team Alpha", Rating: 3.0},
			{EntityName: "Team Beta", Rating: 4.0},
		}
		coll := model.NewCollection(records)

		Convey("When reading back", func() {
			Convey("Then length and order should match the input", func() {
				So(coll.Len(), ShouldEqual, 2)
				So(coll.At(0).EntityName, ShouldEqual, "Team Alpha")
				So(coll.At(1).EntityName, ShouldEqual, "Team Beta")
			})
		})

		Convey("When the caller mutates the input slice afterwards", func() {
			records[0].EntityName = "Mutated"

			Convey("Then the collection should be unaffected", func() {
				So(coll.At(0).EntityName, ShouldEqual, "Team Alpha")
			})
		})

		Convey("When mutating the slice returned by Records", func() {
			out := coll.Records()
			out[1].EntityName = "Mutated"

			Convey("Then the collection should be unaffected", func() {
				So(coll.At(1).EntityName, ShouldEqual, "Team Beta")
				So(coll.Records()[1].EntityName, ShouldEqual, "Team Beta")
			})
		})
	})

	Convey("Given an empty collection", t, func() {
		coll := model.NewCollection(nil)

		Convey("Then it should behave as a zero-length sequence", func() {
			So(coll.Len(), ShouldEqual, 0)
			So(coll.Records(), ShouldBeEmpty)
		})
	})
}
