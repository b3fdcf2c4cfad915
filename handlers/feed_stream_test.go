package handlers

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"mission-bridge/models"
	"mission-bridge/workers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runFeedStream drives one SSE client through an in-memory pipe.
func runFeedStream(t *testing.T, feed *workers.FeedSimulator, done chan struct{}, keepalive time.Duration) (*bufio.Reader, *io.PipeReader, chan struct{}) {
	t.Helper()
	pr, pw := io.Pipe()
	write := feedStreamWriter(feed, done, keepalive)
	require.Equal(t, 1, feed.Subscribers())

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		defer pw.Close()
		write(bufio.NewWriter(pw))
	}()
	return bufio.NewReader(pr), pr, finished
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func waitFinished(t *testing.T, finished chan struct{}) {
	t.Helper()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("stream writer did not return")
	}
}

func TestFeedStreamFramesPosts(t *testing.T) {
	feed := workers.NewFeedSimulator(10, time.Hour, nil)
	done := make(chan struct{})
	r, _, finished := runFeedStream(t, feed, done, time.Hour)

	assert.Equal(t, ":\n", readLine(t, r))
	assert.Equal(t, "\n", readLine(t, r))

	post := feed.Tick()
	assert.Equal(t, "event: post\n", readLine(t, r))
	data := readLine(t, r)
	require.True(t, strings.HasPrefix(data, "data: "), data)

	var got models.FeedPost
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &got))
	assert.Equal(t, post, got)
	assert.Equal(t, "\n", readLine(t, r))

	close(done)
	waitFinished(t, finished)
	assert.Equal(t, 0, feed.Subscribers())
}

func TestFeedStreamKeepalive(t *testing.T) {
	feed := workers.NewFeedSimulator(10, time.Hour, nil)
	done := make(chan struct{})
	r, _, finished := runFeedStream(t, feed, done, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.Equal(t, ":\n", readLine(t, r))
		assert.Equal(t, "\n", readLine(t, r))
	}

	close(done)
	waitFinished(t, finished)
	assert.Equal(t, 0, feed.Subscribers())
}

func TestFeedStreamEndsWhenClientLeaves(t *testing.T) {
	feed := workers.NewFeedSimulator(10, time.Hour, nil)
	r, pr, finished := runFeedStream(t, feed, make(chan struct{}), time.Hour)

	assert.Equal(t, ":\n", readLine(t, r))
	assert.Equal(t, "\n", readLine(t, r))
	require.NoError(t, pr.Close())

	feed.Tick()
	waitFinished(t, finished)
	assert.Equal(t, 0, feed.Subscribers())
}
