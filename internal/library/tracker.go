package library

import (
	"cmp"
	"slices"
)

const (
	// RecentCapacity bounds the recency list.
	RecentCapacity = 10
	// FrequentLimit bounds the frequency ranking.
	FrequentLimit = 10
)

// Play records one play of a member song: its play count goes up by one and
// it moves to the front of the recency list. Playing a song that is not a
// member does nothing and returns false.
func (l *Library) Play(id SongID) bool {
	s, ok := l.byID[id]
	if !ok {
		return false
	}
	s.playCount++

	if idx := slices.Index(l.recent, id); idx >= 0 {
		l.recent = slices.Delete(l.recent, idx, idx+1)
	}
	l.recent = slices.Insert(l.recent, 0, id)
	if len(l.recent) > RecentCapacity {
		l.recent = l.recent[:RecentCapacity]
	}
	return true
}

// RecentPlays returns up to RecentCapacity songs, most recently played first.
func (l *Library) RecentPlays() []*Song {
	return l.Resolve(l.recent)
}

// FrequentPlays ranks member songs by play count (highest first), breaking
// ties by title in byte order, and returns at most FrequentLimit of them.
// Songs with equal keys keep their insertion order.
func (l *Library) FrequentPlays() []*Song {
	ranked := l.Songs()
	slices.SortStableFunc(ranked, func(a, b *Song) int {
		if c := cmp.Compare(b.playCount, a.playCount); c != 0 {
			return c
		}
		return cmp.Compare(a.title, b.title)
	})
	if len(ranked) > FrequentLimit {
		ranked = ranked[:FrequentLimit]
	}
	return ranked
}

// RestoreRecency replaces the recency list with ids, which must already be
// ordered most recent first. Non-members and repeated handles are skipped;
// the list is cut to RecentCapacity from the tail. Unlike Play, it neither
// reverses its input nor touches play counts.
func (l *Library) RestoreRecency(ids []SongID) {
	restored := make([]SongID, 0, min(len(ids), RecentCapacity))
	seen := make(map[SongID]struct{}, len(ids))
	for _, id := range ids {
		if !l.Contains(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		restored = append(restored, id)
	}
	if len(restored) > RecentCapacity {
		restored = restored[:RecentCapacity]
	}
	l.recent = restored
}

// RestorePlayCount sets the play count of a member song, as if it had been
// played n times, without touching the recency list. Negative counts are
// ignored.
func (l *Library) RestorePlayCount(id SongID, n int) bool {
	s, ok := l.byID[id]
	if !ok || n < 0 {
		return false
	}
	s.playCount = n
	return true
}
