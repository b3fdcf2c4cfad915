package workers

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"mission-bridge/models"
	"mission-bridge/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var (
	FeedNames  = []string{"Quiet Walker", "Blue Sky", "Dawn Star", "Gentle River", "Cozy Cat", "Brave Sprout", "Warm Blanket"}
	FeedTitles = []string{"5 minute walk in the park", "Tidy the desk", "Slowly drink a glass of water", "Read 2 pages", "Smile in the mirror", "Make the bed", "Water a plant"}
)

const (
	DefaultFeedWindow   = 10
	DefaultFeedInterval = 8 * time.Second
	initialFeedPosts    = 3
)

// FeedSimulator produces a synthetic activity feed. It shares no state with
// the economy and is driven by its own gocron job.
type FeedSimulator struct {
	Window   int
	Interval time.Duration

	mu          sync.RWMutex
	posts       []models.FeedPost
	rng         *rand.Rand
	subscribers map[chan models.FeedPost]struct{}
	sched       gocron.Scheduler
}

func NewFeedSimulator(window int, interval time.Duration, rng *rand.Rand) *FeedSimulator {
	if window <= 0 {
		window = DefaultFeedWindow
	}
	if interval <= 0 {
		interval = DefaultFeedInterval
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	f := &FeedSimulator{
		Window:      window,
		Interval:    interval,
		rng:         rng,
		subscribers: map[chan models.FeedPost]struct{}{},
	}
	f.seed()
	return f
}

// seed fills the feed with a few older posts.
func (f *FeedSimulator) seed() {
	for i := 0; i < initialFeedPosts; i++ {
		f.posts = append(f.posts, models.FeedPost{
			ID:           fmt.Sprintf("post-%d", i),
			Username:     FeedNames[i%len(FeedNames)],
			MissionTitle: FeedTitles[i%len(FeedTitles)],
			Timestamp:    fmt.Sprintf("%d min ago", (i+1)*5),
			Likes:        f.rng.IntN(20),
		})
	}
}

// Start schedules Tick every Interval.
func (f *FeedSimulator) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(f.Interval),
		gocron.NewTask(func() { f.Tick() }),
	)
	if err != nil {
		return err
	}
	sched.Start()

	f.mu.Lock()
	f.sched = sched
	f.mu.Unlock()
	utils.Log.Info().Dur("interval", f.Interval).Int("window", f.Window).Msg("feed simulator running")
	return nil
}

func (f *FeedSimulator) Stop() error {
	f.mu.Lock()
	sched := f.sched
	f.sched = nil
	f.mu.Unlock()
	if sched == nil {
		return nil
	}
	return sched.Shutdown()
}

// Tick prepends one fresh post and trims the feed to Window entries.
func (f *FeedSimulator) Tick() models.FeedPost {
	f.mu.Lock()
	defer f.mu.Unlock()

	post := models.FeedPost{
		ID:           "post-" + uuid.NewString(),
		Username:     FeedNames[f.rng.IntN(len(FeedNames))],
		MissionTitle: FeedTitles[f.rng.IntN(len(FeedTitles))],
		Timestamp:    "just now",
		Likes:        0,
	}
	f.posts = slices.Insert(f.posts, 0, post)
	if len(f.posts) > f.Window {
		f.posts = f.posts[:f.Window]
	}

	for ch := range f.subscribers {
		select {
		case ch <- post:
		default: // slow subscriber, drop
		}
	}
	return post
}

// Posts returns the current window, newest first.
func (f *FeedSimulator) Posts() []models.FeedPost {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.posts)
}

// Subscribe returns a channel receiving every new post and a cancel func.
func (f *FeedSimulator) Subscribe() (<-chan models.FeedPost, func()) {
	ch := make(chan models.FeedPost, 8)
	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subscribers, ch)
			f.mu.Unlock()
		})
	}
}

// Subscribers returns the number of open subscriptions.
func (f *FeedSimulator) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}
