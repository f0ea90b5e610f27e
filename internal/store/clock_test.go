package store

import "time"

type testClock struct{ t time.Time }

func fixedClock(rfc3339 string) *testClock {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		panic(err)
	}
	return &testClock{t: t}
}

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance() { c.t = c.t.Add(time.Minute) }
