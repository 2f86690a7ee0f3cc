package loader_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/assay/internal/adapters/loader"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReadCSV(t *testing.T) {
	Convey("Given a well-formed CSV with a header row", t, func() {
		data := "Entity Name,Rating,Notes\nTeam Alpha,3.5,good progress\nTeam Beta,2.0,\n"

		Convey("When parsing", func() {
			rows, err := loader.ReadCSV(strings.NewReader(data))

			Convey("Then each data row should map column names to cells", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, []map[string]string{
					{"Entity Name": "Team Alpha", "Rating": "3.5", "Notes": "good progress"},
					{"Entity Name": "Team Beta", "Rating": "2.0", "Notes": ""},
				})
			})
		})
	})

	Convey("Given a CSV with quoted cells containing commas", t, func() {
		data := "Entity Name,Notes\nTeam Alpha,\"slow, but steady\"\n"

		Convey("When parsing", func() {
			rows, err := loader.ReadCSV(strings.NewReader(data))

			Convey("Then the quoted cell should survive intact", func() {
				So(err, ShouldBeNil)
				So(rows[0]["Notes"], ShouldEqual, "slow, but steady")
			})
		})
	})

	Convey("Given a header-only file", t, func() {
		Convey("When parsing", func() {
			rows, err := loader.ReadCSV(strings.NewReader("Entity Name,Rating\n"))

			Convey("Then the result should be empty without error", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an empty file", t, func() {
		Convey("When parsing", func() {
			rows, err := loader.ReadCSV(strings.NewReader(""))

			Convey("Then it should fail with the empty-file error", func() {
				So(rows, ShouldBeNil)
				So(errors.Is(err, loader.ErrEmptyFile), ShouldBeTrue)
			})
		})
	})

	Convey("Given a row with the wrong number of cells", t, func() {
		data := "Entity Name,Rating\nTeam Alpha,3.5\nTeam Beta\n"

		Convey("When parsing", func() {
			rows, err := loader.ReadCSV(strings.NewReader(data))

			Convey("Then it should fail with a parse error naming the line", func() {
				So(rows, ShouldBeNil)
				So(errors.Is(err, loader.ErrParse), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "line 3")
			})
		})
	})

	Convey("Given cells with leading whitespace", t, func() {
		data := "Entity Name, Rating\nTeam Alpha, 3.5\n"

		Convey("When parsing", func() {
			rows, err := loader.ReadCSV(strings.NewReader(data))

			Convey("Then leading space should be trimmed", func() {
				So(err, ShouldBeNil)
				So(rows[0]["Rating"], ShouldEqual, "3.5")
			})
		})
	})
}
