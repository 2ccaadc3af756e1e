// Package pipeline orchestrates transcript discovery, parsing, and pricing.
package pipeline

import (
	"os"

	"github.com/theirongolddev/tokenscan/internal/config"
	"github.com/theirongolddev/tokenscan/internal/model"
	"github.com/theirongolddev/tokenscan/internal/source"
	"github.com/theirongolddev/tokenscan/internal/store"
)

// ProgressFunc receives (current, total) sub-task counts during a scan.
type ProgressFunc func(current, total int)

// Options configures a scan.
type Options struct {
	// Cache memoizes per-file parse results. Nil disables caching; cache
	// failures fall back to direct parsing.
	Cache    *store.Cache
	Progress ProgressFunc
}

// SubagentUsage is one aggregated sub-task transcript with its costs.
type SubagentUsage struct {
	AgentID     string
	Path        string
	Info        model.AgentInfo
	Usage       model.UsageRecord
	Issue       string
	CheapCost   float64
	PremiumCost float64
}

// SessionUsage pairs a discovered session with its aggregated sub-tasks.
type SessionUsage struct {
	Session   source.Session
	Subagents []SubagentUsage
}

// Result holds a complete scan in discovery order.
type Result struct {
	Root      string
	Tiers     config.Tiers
	Sessions  []SessionUsage
	CacheHits int
	Parsed    int
}

// Subagents returns every sub-task row across all sessions, preserving
// discovery order (sessions by directory name, sub-tasks by filename).
func (r *Result) Subagents() []SubagentUsage {
	var all []SubagentUsage
	for _, s := range r.Sessions {
		all = append(all, s.Subagents...)
	}
	return all
}

// Scan discovers sessions under root and aggregates every sub-task
// transcript strictly in order. The ordering is part of the report
// contract, so files are processed one at a time.
func Scan(root string, tiers config.Tiers, opts Options) (*Result, error) {
	sessions, err := source.DiscoverSessions(root)
	if err != nil {
		return nil, err
	}

	res := &Result{Root: root, Tiers: tiers}
	total := source.CountSubagents(sessions)
	done := 0

	for _, sess := range sessions {
		su := SessionUsage{Session: sess}
		for _, sub := range sess.Subagents {
			usage, info, hit := loadTranscript(sub.Path, opts.Cache)
			if hit {
				res.CacheHits++
			} else {
				res.Parsed++
			}

			su.Subagents = append(su.Subagents, SubagentUsage{
				AgentID:     sub.AgentID,
				Path:        sub.Path,
				Info:        info,
				Usage:       usage,
				Issue:       model.IssueNumber(info.Task),
				CheapCost:   tiers.Cheap.Cost(usage),
				PremiumCost: tiers.Premium.Cost(usage),
			})

			done++
			if opts.Progress != nil {
				opts.Progress(done, total)
			}
		}
		res.Sessions = append(res.Sessions, su)
	}

	return res, nil
}

// loadTranscript aggregates one transcript, consulting the cache first.
// Parse failures contribute whatever was accumulated before the failure and
// are not cached; a transcript that cannot be opened contributes nothing.
func loadTranscript(path string, cache *store.Cache) (model.UsageRecord, model.AgentInfo, bool) {
	var fi os.FileInfo
	if cache != nil {
		var err error
		fi, err = os.Stat(path)
		if err == nil {
			if e, ok, lerr := cache.Lookup(path, fi.ModTime().UnixNano(), fi.Size()); lerr == nil && ok {
				return e.Usage, e.Info, true
			}
		}
	}

	usage, perr := source.ParseFile(path)
	info, ierr := source.ReadInfo(path)
	if ierr != nil {
		info = model.AgentInfo{}
	}

	if cache != nil && fi != nil && perr == nil && ierr == nil {
		_ = cache.Save(store.Entry{
			Path:      path,
			MtimeNs:   fi.ModTime().UnixNano(),
			SizeBytes: fi.Size(),
			Usage:     usage,
			Info:      info,
		})
	}

	return usage, info, false
}

// LoadFile aggregates a single transcript and reads its metadata, for
// single-transcript invocations. A missing file is an error.
func LoadFile(path string) (model.UsageRecord, model.AgentInfo, error) {
	usage, err := source.ParseFile(path)
	if err != nil {
		return model.UsageRecord{}, model.AgentInfo{}, err
	}
	info, err := source.ReadInfo(path)
	if err != nil {
		return usage, model.AgentInfo{}, err
	}
	return usage, info, nil
}
