package websocket

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func returnsWithin(d time.Duration, f func()) bool {
	done := make(chan struct{})
	go func() {
		f()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

func TestHubLifecycle(t *testing.T) {
	Convey("Given a running hub with one client", t, func() {
		h := NewHub()
		go h.Run()

		c := &Client{hub: h, send: make(chan []byte, 1)}
		h.Register(c)
		So(h.ClientCount(), ShouldEqual, 1)

		Convey("Broadcast reaches the client's send channel", func() {
			h.Broadcast([]byte("hello"))
			select {
			case msg := <-c.send:
				So(string(msg), ShouldEqual, "hello")
			case <-time.After(time.Second):
				So("broadcast never arrived", ShouldBeEmpty)
			}
			h.Stop()
		})

		Convey("Stop closes the client's send channel", func() {
			h.Stop()
			select {
			case _, open := <-c.send:
				So(open, ShouldBeFalse)
			case <-time.After(time.Second):
				So("send channel never closed", ShouldBeEmpty)
			}
		})

		Convey("Unregister after Stop returns instead of blocking", func() {
			h.Stop()
			So(returnsWithin(time.Second, func() { h.Unregister(c) }), ShouldBeTrue)
		})

		Convey("Register after Stop closes the new client's send channel", func() {
			h.Stop()
			c2 := &Client{hub: h, send: make(chan []byte, 1)}
			So(returnsWithin(time.Second, func() { h.Register(c2) }), ShouldBeTrue)
			select {
			case _, open := <-c2.send:
				So(open, ShouldBeFalse)
			case <-time.After(time.Second):
				So("send channel never closed", ShouldBeEmpty)
			}
		})

		Convey("ClientCount reports zero after Stop", func() {
			h.Stop()
			So(h.ClientCount(), ShouldEqual, 0)
		})
	})
}
