package reconcile

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	postService "campusaxis_backend/internals/features/community/posts/service"
	statsModel "campusaxis_backend/internals/features/gamification/stats/model"
	statsService "campusaxis_backend/internals/features/gamification/stats/service"
)

type Config struct {
	Schedule  string
	BatchSize int
	Timeout   time.Duration
}

// Report summarises one reconcile pass.
type Report struct {
	Scanned  int
	Fixed    int
	Skipped  int
	Unlocked int
}

const DefaultSettle = 2 * time.Minute

// Reconciler restores posts_count from live posts and re-runs the
// achievement check, covering bookkeeping that failed after a post write.
// Points are left alone.
//
// Users whose stats or posts changed within Settle are skipped for this
// pass: their bookkeeping job may still be in flight and would add on top
// of the corrected count.
type Reconciler struct {
	DB        *gorm.DB
	Evaluator statsService.Evaluator
	BatchSize int
	Settle    time.Duration
}

func New(db *gorm.DB, ev statsService.Evaluator, batchSize int) *Reconciler {
	if batchSize <= 0 {
		batchSize = 200
	}
	return &Reconciler{DB: db, Evaluator: ev, BatchSize: batchSize, Settle: DefaultSettle}
}

func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	var rep Report
	var lastID uint

	for {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		var batch []statsModel.UserStats
		if err := r.DB.WithContext(ctx).
			Where("user_stats_id > ?", lastID).
			Order("user_stats_id ASC").
			Limit(r.BatchSize).
			Find(&batch).Error; err != nil {
			return rep, fmt.Errorf("load stats batch: %w", err)
		}
		if len(batch) == 0 {
			return rep, nil
		}
		lastID = batch[len(batch)-1].UserStatsID
		rep.Scanned += len(batch)

		ids := make([]uuid.UUID, 0, len(batch))
		for i := range batch {
			ids = append(ids, batch[i].UserStatsUserID)
		}
		live, err := postService.CountLiveByAuthor(ctx, r.DB, ids)
		if err != nil {
			return rep, fmt.Errorf("count live posts: %w", err)
		}

		cutoff := time.Now().Add(-r.Settle)
		busy := map[uuid.UUID]bool{}
		if r.Settle > 0 {
			if busy, err = postService.AuthorsChangedSince(ctx, r.DB, ids, cutoff); err != nil {
				return rep, fmt.Errorf("recent post activity: %w", err)
			}
		}

		for i := range batch {
			s := &batch[i]
			if r.Settle > 0 && (s.UserStatsUpdatedAt.After(cutoff) || busy[s.UserStatsUserID]) {
				rep.Skipped++
				continue
			}

			want := live[s.UserStatsUserID]
			if s.UserStatsPostsCount != want {
				// guarded on the value we read so a concurrent increment is never overwritten
				res := r.DB.WithContext(ctx).
					Model(&statsModel.UserStats{}).
					Where("user_stats_id = ? AND user_stats_posts_count = ?", s.UserStatsID, s.UserStatsPostsCount).
					Update("user_stats_posts_count", want)
				if res.Error != nil {
					log.Printf("[RECONCILE] fix posts_count user=%s: %v", s.UserStatsUserID, res.Error)
					continue
				}
				if res.RowsAffected == 0 {
					rep.Skipped++
					continue
				}
				log.Printf("[RECONCILE] user=%s posts_count %d -> %d", s.UserStatsUserID, s.UserStatsPostsCount, want)
				rep.Fixed++
			}

			if r.Evaluator == nil {
				continue
			}
			unlocked, err := r.Evaluator.Evaluate(ctx, s.UserStatsUserID)
			if err != nil {
				log.Printf("[RECONCILE] evaluate user=%s: %v", s.UserStatsUserID, err)
				continue
			}
			rep.Unlocked += len(unlocked)
		}

		if len(batch) < r.BatchSize {
			return rep, nil
		}
	}
}

// Start schedules Run on cfg.Schedule; overlapping runs are skipped. The
// caller stops the returned cron on shutdown.
func Start(r *Reconciler, cfg Config) (*cron.Cron, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		start := time.Now()
		rep, err := r.Run(ctx)
		if err != nil {
			log.Printf("[RECONCILE] run failed after %d users: %v", rep.Scanned, err)
			return
		}
		log.Printf("[RECONCILE] scanned=%d fixed=%d skipped=%d unlocked=%d dur=%s", rep.Scanned, rep.Fixed, rep.Skipped, rep.Unlocked, time.Since(start))
	})
	if err != nil {
		return nil, fmt.Errorf("add reconcile schedule %q: %w", cfg.Schedule, err)
	}
	log.Printf("[RECONCILE] started schedule=%q batch=%d", cfg.Schedule, r.BatchSize)
	c.Start()
	return c, nil
}
