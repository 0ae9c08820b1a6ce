package rosterweb

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const rosterPage = `
<html><body>
<table>
  <tbody>
    <tr><td>Anthony Edwards</td><td>5</td><td>G</td><td>6-4</td></tr>
    <tr><td>Rudy  Gobert</td><td>27</td><td>C</td><td>7-1</td></tr>
    <tr><td>Incomplete Row</td></tr>
    <tr><td>No Position</td><td>8</td><td>  </td><td>6-9</td></tr>
  </tbody>
</table>
</body></html>`

func TestParsePositions(t *testing.T) {
	Convey("Given a rendered roster page", t, func() {
		positions, err := ParsePositions(rosterPage)
		So(err, ShouldBeNil)

		Convey("Name and position cells map with normalized names", func() {
			So(positions["anthony edwards"], ShouldEqual, "G")
			So(positions["rudy gobert"], ShouldEqual, "C")
		})

		Convey("Rows missing cells or positions are skipped", func() {
			So(positions, ShouldNotContainKey, "incomplete row")
			So(positions, ShouldNotContainKey, "no position")
			So(len(positions), ShouldEqual, 2)
		})
	})

	Convey("A page without roster rows is an error", t, func() {
		_, err := ParsePositions(`<html><body><p>maintenance</p></body></html>`)
		So(err, ShouldNotBeNil)
	})
}
