package tasks

import "fmt"

// ProgressUpdate represents a progress event during a build.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Build phase enumeration
type Phase int

const (
	ResolveSeeds Phase = iota
	CoverSeeds
	FillCandidates
	FilterYears
	AggregateGenres
	CreatePlaylist
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case ResolveSeeds:
		return "resolve_seeds"
	case CoverSeeds:
		return "cover_seeds"
	case FillCandidates:
		return "fill_candidates"
	case FilterYears:
		return "filter_years"
	case AggregateGenres:
		return "aggregate_genres"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

func resolvingUpdate(step, total int, artist, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSeeds,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching for %s - %s", artist, title),
	}
}

func coveringUpdate(step, total int, seed string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CoverSeeds,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching recommendations for seed %d/%d", step, total),
		Data:    seed,
	}
}

func fillingUpdate(have, want int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FillCandidates,
		Step:    have,
		Total:   want,
		Message: fmt.Sprintf("Fetching additional recommendations to reach %d tracks", want),
	}
}

func filteringUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FilterYears,
		Step:    step,
		Total:   total,
		Message: "Checking release years...",
	}
}

func aggregatingUpdate(artists int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AggregateGenres,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Analyzing genres of %d artists...", artists),
	}
}

func creatingUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q", name),
	}
}

func addingUpdate(step, total, tracks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding %d tracks (batch %d/%d)", tracks, step, total),
	}
}

// sendProgress delivers update without blocking; updates are dropped when
// the channel is full or nil.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
