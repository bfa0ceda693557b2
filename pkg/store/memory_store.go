package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cinelog/pkg/domain"
)

// MemoryStore is an in-process Store used in tests and local development.
// It enforces the same uniqueness and counter invariants as the SQL store.
type MemoryStore struct {
	mu  sync.RWMutex
	seq int64

	users     map[int64]domain.User
	movies    map[int64]domain.Movie
	genres    map[int64]domain.Genre
	actors    map[int64]domain.Actor
	directors map[int64]domain.Director
	reviews   map[int64]domain.Review
	bookmarks map[int64]domain.Bookmark

	movieGenres  map[int64][]int64
	movieCredits map[int64][]memCredit
	reviewLikes  map[likeKey]time.Time
	movieLikes   map[likeKey]time.Time
}

type likeKey struct {
	TargetID int64
	UserID   int64
}

type memCredit struct {
	ActorID       int64
	RoleName      string
	CharacterName string
	Ord           int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[int64]domain.User),
		movies:       make(map[int64]domain.Movie),
		genres:       make(map[int64]domain.Genre),
		actors:       make(map[int64]domain.Actor),
		directors:    make(map[int64]domain.Director),
		reviews:      make(map[int64]domain.Review),
		bookmarks:    make(map[int64]domain.Bookmark),
		movieGenres:  make(map[int64][]int64),
		movieCredits: make(map[int64][]memCredit),
		reviewLikes:  make(map[likeKey]time.Time),
		movieLikes:   make(map[likeKey]time.Time),
	}
}

func (s *MemoryStore) nextID() int64 {
	s.seq++
	return s.seq
}

// users

func (s *MemoryStore) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.User{}, ErrDuplicate
		}
	}
	u.ID = s.nextID()
	if u.RegistrationDate.IsZero() {
		u.RegistrationDate = time.Now().UTC()
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (s *MemoryStore) UpdateUser(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username || other.Email == u.Email {
			return domain.User{}, ErrDuplicate
		}
	}
	u.RegistrationDate = existing.RegistrationDate
	u.LastLogin = existing.LastLogin
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) SetLastLogin(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	u.LastLogin = &now
	s.users[id] = u
	return nil
}

func (s *MemoryStore) ListUsers(_ context.Context, q UserQuery) ([]domain.User, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.User
	needle := strings.ToLower(q.Search)
	for _, u := range s.users {
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Username), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RegistrationDate.After(matched[j].RegistrationDate)
	})
	total := len(matched)
	return paginate(matched, q.Page, q.Limit), total, nil
}

func (s *MemoryStore) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *MemoryStore) UsersByRole(_ context.Context) ([]domain.RoleCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.UserRole]int)
	for _, u := range s.users {
		counts[u.Role]++
	}
	var res []domain.RoleCount
	for role, n := range counts {
		res = append(res, domain.RoleCount{Role: role, Count: n})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Role < res[j].Role })
	return res, nil
}

func (s *MemoryStore) DeleteUserCascade(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}

	for key := range s.reviewLikes {
		if key.UserID != id {
			continue
		}
		if r, ok := s.reviews[key.TargetID]; ok && r.LikesCount > 0 {
			r.LikesCount--
			s.reviews[key.TargetID] = r
		}
		delete(s.reviewLikes, key)
	}
	for key := range s.movieLikes {
		if key.UserID != id {
			continue
		}
		if m, ok := s.movies[key.TargetID]; ok && m.LikesCount > 0 {
			m.LikesCount--
			s.movies[key.TargetID] = m
		}
		delete(s.movieLikes, key)
	}
	for bid, b := range s.bookmarks {
		if b.UserID == id {
			delete(s.bookmarks, bid)
		}
	}

	touched := make(map[int64]bool)
	for rid, r := range s.reviews {
		if r.UserID != id {
			continue
		}
		for key := range s.reviewLikes {
			if key.TargetID == rid {
				delete(s.reviewLikes, key)
			}
		}
		touched[r.MovieID] = true
		delete(s.reviews, rid)
	}
	for mid := range touched {
		s.recomputeAggregates(mid)
	}

	delete(s.users, id)
	return nil
}

// recomputeAggregates rebuilds rating_count and avg_rating from the approved
// reviews of the movie. Callers hold the write lock.
func (s *MemoryStore) recomputeAggregates(movieID int64) {
	m, ok := s.movies[movieID]
	if !ok {
		return
	}
	var count int
	var sum int
	for _, r := range s.reviews {
		if r.MovieID == movieID && r.IsApproved {
			count++
			sum += r.Rating
		}
	}
	m.RatingCount = count
	if count == 0 {
		m.AvgRating = 0
	} else {
		m.AvgRating = float64(sum) / float64(count)
	}
	m.UpdatedAt = time.Now().UTC()
	s.movies[movieID] = m
}

// movies

func (s *MemoryStore) CreateMovie(ctx context.Context, mc MovieChange) (domain.Movie, error) {
	s.mu.Lock()
	m := mc.Movie
	for _, existing := range s.movies {
		if existing.Slug == m.Slug {
			s.mu.Unlock()
			return domain.Movie{}, ErrDuplicate
		}
	}
	if m.DirectorID == nil && mc.DirectorName != "" {
		did := s.findOrCreateDirectorLocked(mc.DirectorName)
		m.DirectorID = &did
	}
	m.ID = s.nextID()
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	m.Genres, m.Director, m.Credits, m.Reviews = nil, nil, nil, nil
	s.movies[m.ID] = m
	if mc.SetGenres {
		s.writeGenresLocked(m.ID, mc.GenreIDs, mc.GenreNames)
	}
	if mc.SetCredits {
		s.writeCreditsLocked(m.ID, mc.Credits)
	}
	id := m.ID
	s.mu.Unlock()
	return s.GetMovie(ctx, id)
}

func (s *MemoryStore) UpdateMovie(ctx context.Context, mc MovieChange) (domain.Movie, error) {
	s.mu.Lock()
	existing, ok := s.movies[mc.Movie.ID]
	if !ok {
		s.mu.Unlock()
		return domain.Movie{}, ErrNotFound
	}
	for id, other := range s.movies {
		if id != mc.Movie.ID && other.Slug == mc.Movie.Slug {
			s.mu.Unlock()
			return domain.Movie{}, ErrDuplicate
		}
	}
	m := mc.Movie
	if m.DirectorID == nil && mc.DirectorName != "" {
		did := s.findOrCreateDirectorLocked(mc.DirectorName)
		m.DirectorID = &did
	}
	m.AvgRating = existing.AvgRating
	m.RatingCount = existing.RatingCount
	m.LikesCount = existing.LikesCount
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now().UTC()
	m.Genres, m.Director, m.Credits, m.Reviews = nil, nil, nil, nil
	s.movies[m.ID] = m
	if mc.SetGenres {
		delete(s.movieGenres, m.ID)
		s.writeGenresLocked(m.ID, mc.GenreIDs, mc.GenreNames)
	}
	if mc.SetCredits {
		delete(s.movieCredits, m.ID)
		s.writeCreditsLocked(m.ID, mc.Credits)
	}
	s.mu.Unlock()
	return s.GetMovie(ctx, m.ID)
}

func (s *MemoryStore) writeGenresLocked(movieID int64, genreIDs []int64, genreNames []string) {
	var resolved []int64
	if len(genreNames) > 0 {
		for _, name := range genreNames {
			resolved = append(resolved, s.findOrCreateGenreLocked(name))
		}
	} else {
		for _, gid := range genreIDs {
			if _, ok := s.genres[gid]; ok {
				resolved = append(resolved, gid)
			}
		}
	}
	seen := make(map[int64]bool)
	var edges []int64
	for _, gid := range resolved {
		if !seen[gid] {
			seen[gid] = true
			edges = append(edges, gid)
		}
	}
	s.movieGenres[movieID] = edges
}

func (s *MemoryStore) writeCreditsLocked(movieID int64, credits []ActorCredit) {
	seen := make(map[int64]bool)
	var edges []memCredit
	for _, c := range credits {
		actorID := c.ActorID
		if actorID == 0 {
			if c.FullName == "" {
				continue
			}
			actorID = s.findOrCreateActorLocked(c.FullName)
		} else if _, ok := s.actors[actorID]; !ok {
			continue
		}
		if seen[actorID] {
			continue
		}
		seen[actorID] = true
		edges = append(edges, memCredit{
			ActorID:       actorID,
			RoleName:      c.RoleName,
			CharacterName: c.CharacterName,
			Ord:           c.Ord,
		})
	}
	s.movieCredits[movieID] = edges
}

func (s *MemoryStore) findOrCreateGenreLocked(name string) int64 {
	for id, g := range s.genres {
		if g.Name == name {
			return id
		}
	}
	id := s.nextID()
	s.genres[id] = domain.Genre{
		ID:        id,
		Name:      name,
		Slug:      slugifyLoose(name),
		CreatedAt: time.Now().UTC(),
	}
	return id
}

func (s *MemoryStore) findOrCreateDirectorLocked(fullName string) int64 {
	for id, d := range s.directors {
		if d.FullName == fullName {
			return id
		}
	}
	id := s.nextID()
	now := time.Now().UTC()
	s.directors[id] = domain.Director{ID: id, FullName: fullName, CreatedAt: now, UpdatedAt: now}
	return id
}

func (s *MemoryStore) findOrCreateActorLocked(fullName string) int64 {
	for id, a := range s.actors {
		if a.FullName == fullName {
			return id
		}
	}
	id := s.nextID()
	now := time.Now().UTC()
	s.actors[id] = domain.Actor{ID: id, FullName: fullName, CreatedAt: now, UpdatedAt: now}
	return id
}

func slugifyLoose(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func (s *MemoryStore) DeleteMovie(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[id]; !ok {
		return ErrNotFound
	}
	delete(s.movieGenres, id)
	delete(s.movieCredits, id)
	for key := range s.movieLikes {
		if key.TargetID == id {
			delete(s.movieLikes, key)
		}
	}
	for bid, b := range s.bookmarks {
		if b.MovieID == id {
			delete(s.bookmarks, bid)
		}
	}
	for rid, r := range s.reviews {
		if r.MovieID != id {
			continue
		}
		for key := range s.reviewLikes {
			if key.TargetID == rid {
				delete(s.reviewLikes, key)
			}
		}
		delete(s.reviews, rid)
	}
	delete(s.movies, id)
	return nil
}

func (s *MemoryStore) GetMovie(_ context.Context, id int64) (domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movies[id]
	if !ok {
		return domain.Movie{}, ErrNotFound
	}
	return s.movieDetailLocked(m), nil
}

func (s *MemoryStore) GetMovieBySlug(_ context.Context, slug string) (domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.movies {
		if m.Slug == slug {
			return s.movieDetailLocked(m), nil
		}
	}
	return domain.Movie{}, ErrNotFound
}

func (s *MemoryStore) movieDetailLocked(m domain.Movie) domain.Movie {
	m.Genres = s.movieGenresLocked(m.ID)
	if m.DirectorID != nil {
		if d, ok := s.directors[*m.DirectorID]; ok {
			dc := d
			m.Director = &dc
		}
	}
	for _, edge := range s.movieCredits[m.ID] {
		actor, ok := s.actors[edge.ActorID]
		if !ok {
			continue
		}
		m.Credits = append(m.Credits, domain.Credit{
			Actor:         actor,
			RoleName:      edge.RoleName,
			CharacterName: edge.CharacterName,
			Ord:           edge.Ord,
		})
	}
	sort.Slice(m.Credits, func(i, j int) bool {
		if m.Credits[i].Ord != m.Credits[j].Ord {
			return m.Credits[i].Ord < m.Credits[j].Ord
		}
		return m.Credits[i].Actor.FullName < m.Credits[j].Actor.FullName
	})

	var reviews []domain.Review
	for _, r := range s.reviews {
		if r.MovieID == m.ID && r.IsApproved {
			reviews = append(reviews, s.reviewWithUserLocked(r))
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].LikesCount != reviews[j].LikesCount {
			return reviews[i].LikesCount > reviews[j].LikesCount
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	if len(reviews) > movieDetailReviewLimit {
		reviews = reviews[:movieDetailReviewLimit]
	}
	m.Reviews = reviews
	return m
}

func (s *MemoryStore) movieGenresLocked(movieID int64) []domain.Genre {
	var genres []domain.Genre
	for _, gid := range s.movieGenres[movieID] {
		if g, ok := s.genres[gid]; ok {
			genres = append(genres, g)
		}
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres
}

func (s *MemoryStore) ListMovies(_ context.Context, q MovieQuery) ([]domain.Movie, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(q.Search)
	var matched []domain.Movie
	for _, m := range s.movies {
		if needle != "" && !strings.Contains(strings.ToLower(m.Title), needle) {
			continue
		}
		if q.YearFrom != nil && (m.ReleaseYear == nil || *m.ReleaseYear < *q.YearFrom) {
			continue
		}
		if q.YearTo != nil && (m.ReleaseYear == nil || *m.ReleaseYear > *q.YearTo) {
			continue
		}
		if q.MinRating != nil && m.AvgRating < *q.MinRating {
			continue
		}
		if q.Genre != "" && !s.movieHasGenreLocked(m.ID, q.Genre) {
			continue
		}
		mm := m
		mm.Genres = s.movieGenresLocked(m.ID)
		matched = append(matched, mm)
	}

	switch q.SortBy {
	case "title":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	case "year_asc":
		sort.Slice(matched, func(i, j int) bool { return yearOf(matched[i]) < yearOf(matched[j]) })
	case "year_desc":
		sort.Slice(matched, func(i, j int) bool { return yearOf(matched[i]) > yearOf(matched[j]) })
	default:
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].AvgRating != matched[j].AvgRating {
				return matched[i].AvgRating > matched[j].AvgRating
			}
			return matched[i].RatingCount > matched[j].RatingCount
		})
	}
	total := len(matched)
	return paginate(matched, q.Page, q.Limit), total, nil
}

func yearOf(m domain.Movie) int {
	if m.ReleaseYear == nil {
		return 0
	}
	return *m.ReleaseYear
}

func (s *MemoryStore) movieHasGenreLocked(movieID int64, genre string) bool {
	for _, gid := range s.movieGenres[movieID] {
		g, ok := s.genres[gid]
		if ok && (g.Slug == genre || g.Name == genre) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) PopularMovies(_ context.Context, limit int) ([]domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rated []domain.Movie
	for _, m := range s.movies {
		if m.RatingCount >= 1 {
			mm := m
			mm.Genres = s.movieGenresLocked(m.ID)
			rated = append(rated, mm)
		}
	}
	sort.Slice(rated, func(i, j int) bool {
		if rated[i].AvgRating != rated[j].AvgRating {
			return rated[i].AvgRating > rated[j].AvgRating
		}
		return rated[i].RatingCount > rated[j].RatingCount
	})
	if len(rated) > limit {
		rated = rated[:limit]
	}
	return rated, nil
}

func (s *MemoryStore) CountMovies(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies), nil
}

func (s *MemoryStore) MostPopularMovie(_ context.Context) (domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *domain.Movie
	for _, m := range s.movies {
		mm := m
		if best == nil ||
			mm.RatingCount > best.RatingCount ||
			(mm.RatingCount == best.RatingCount && mm.AvgRating > best.AvgRating) {
			best = &mm
		}
	}
	if best == nil {
		return domain.Movie{}, ErrNotFound
	}
	return *best, nil
}

// genres

func (s *MemoryStore) ListGenres(_ context.Context) ([]domain.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	genres := make([]domain.Genre, 0, len(s.genres))
	for _, g := range s.genres {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres, nil
}

func (s *MemoryStore) GetGenre(_ context.Context, id int64) (domain.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.genres[id]
	if !ok {
		return domain.Genre{}, ErrNotFound
	}
	return g, nil
}

func (s *MemoryStore) CreateGenre(_ context.Context, g domain.Genre) (domain.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.genres {
		if existing.Name == g.Name || existing.Slug == g.Slug {
			return domain.Genre{}, ErrDuplicate
		}
	}
	g.ID = s.nextID()
	g.CreatedAt = time.Now().UTC()
	s.genres[g.ID] = g
	return g, nil
}

func (s *MemoryStore) UpdateGenre(_ context.Context, g domain.Genre) (domain.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.genres[g.ID]
	if !ok {
		return domain.Genre{}, ErrNotFound
	}
	for id, other := range s.genres {
		if id != g.ID && (other.Name == g.Name || other.Slug == g.Slug) {
			return domain.Genre{}, ErrDuplicate
		}
	}
	g.CreatedAt = existing.CreatedAt
	s.genres[g.ID] = g
	return g, nil
}

func (s *MemoryStore) DeleteGenre(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.genres[id]; !ok {
		return ErrNotFound
	}
	for mid, gids := range s.movieGenres {
		var kept []int64
		for _, gid := range gids {
			if gid != id {
				kept = append(kept, gid)
			}
		}
		s.movieGenres[mid] = kept
	}
	delete(s.genres, id)
	return nil
}

func (s *MemoryStore) CountGenres(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.genres), nil
}

// actors

func (s *MemoryStore) ListActors(_ context.Context, q PersonQuery) ([]domain.Actor, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(q.Search)
	var matched []domain.Actor
	for id, a := range s.actors {
		if needle != "" && !strings.Contains(strings.ToLower(a.FullName), needle) {
			continue
		}
		if q.Country != "" && a.Country != q.Country {
			continue
		}
		aa := a
		aa.MoviesCount = s.actorMoviesCountLocked(id)
		matched = append(matched, aa)
	}
	sort.Slice(matched, func(i, j int) bool {
		return personLess(q.SortBy,
			matched[i].FullName, matched[j].FullName,
			matched[i].BirthDate, matched[j].BirthDate)
	})
	total := len(matched)
	return paginate(matched, q.Page, q.Limit), total, nil
}

func personLess(sortBy, nameI, nameJ string, birthI, birthJ *time.Time) bool {
	switch sortBy {
	case "name_desc":
		return nameI > nameJ
	case "birth_date_asc":
		return birthTime(birthI).Before(birthTime(birthJ))
	case "birth_date_desc":
		return birthTime(birthI).After(birthTime(birthJ))
	default:
		return nameI < nameJ
	}
}

func birthTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (s *MemoryStore) actorMoviesCountLocked(actorID int64) int {
	count := 0
	for _, credits := range s.movieCredits {
		for _, c := range credits {
			if c.ActorID == actorID {
				count++
				break
			}
		}
	}
	return count
}

func (s *MemoryStore) GetActor(_ context.Context, id int64) (domain.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actors[id]
	if !ok {
		return domain.Actor{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) ActorMovies(_ context.Context, id int64) ([]domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var movies []domain.Movie
	for mid, credits := range s.movieCredits {
		for _, c := range credits {
			if c.ActorID != id {
				continue
			}
			if m, ok := s.movies[mid]; ok {
				mm := m
				mm.Genres = s.movieGenresLocked(mid)
				movies = append(movies, mm)
			}
			break
		}
	}
	sort.Slice(movies, func(i, j int) bool { return yearOf(movies[i]) > yearOf(movies[j]) })
	return movies, nil
}

func (s *MemoryStore) CreateActor(_ context.Context, a domain.Actor) (domain.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID()
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	s.actors[a.ID] = a
	return a, nil
}

func (s *MemoryStore) UpdateActor(_ context.Context, a domain.Actor) (domain.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.actors[a.ID]
	if !ok {
		return domain.Actor{}, ErrNotFound
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	s.actors[a.ID] = a
	return a, nil
}

func (s *MemoryStore) DeleteActor(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.actors[id]; !ok {
		return ErrNotFound
	}
	for mid, credits := range s.movieCredits {
		var kept []memCredit
		for _, c := range credits {
			if c.ActorID != id {
				kept = append(kept, c)
			}
		}
		s.movieCredits[mid] = kept
	}
	delete(s.actors, id)
	return nil
}

func (s *MemoryStore) CountActors(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.actors), nil
}

// directors

func (s *MemoryStore) ListDirectors(_ context.Context, q PersonQuery) ([]domain.Director, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(q.Search)
	var matched []domain.Director
	for id, d := range s.directors {
		if needle != "" && !strings.Contains(strings.ToLower(d.FullName), needle) {
			continue
		}
		if q.Country != "" && d.Country != q.Country {
			continue
		}
		dd := d
		dd.MoviesCount = s.directorMoviesCountLocked(id)
		matched = append(matched, dd)
	}
	sort.Slice(matched, func(i, j int) bool {
		return personLess(q.SortBy,
			matched[i].FullName, matched[j].FullName,
			matched[i].BirthDate, matched[j].BirthDate)
	})
	total := len(matched)
	return paginate(matched, q.Page, q.Limit), total, nil
}

func (s *MemoryStore) directorMoviesCountLocked(directorID int64) int {
	count := 0
	for _, m := range s.movies {
		if m.DirectorID != nil && *m.DirectorID == directorID {
			count++
		}
	}
	return count
}

func (s *MemoryStore) GetDirector(_ context.Context, id int64) (domain.Director, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.directors[id]
	if !ok {
		return domain.Director{}, ErrNotFound
	}
	return d, nil
}

func (s *MemoryStore) DirectorMovies(_ context.Context, id int64) ([]domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var movies []domain.Movie
	for _, m := range s.movies {
		if m.DirectorID != nil && *m.DirectorID == id {
			mm := m
			mm.Genres = s.movieGenresLocked(m.ID)
			movies = append(movies, mm)
		}
	}
	sort.Slice(movies, func(i, j int) bool { return yearOf(movies[i]) > yearOf(movies[j]) })
	return movies, nil
}

func (s *MemoryStore) CreateDirector(_ context.Context, d domain.Director) (domain.Director, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.nextID()
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	s.directors[d.ID] = d
	return d, nil
}

func (s *MemoryStore) UpdateDirector(_ context.Context, d domain.Director) (domain.Director, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.directors[d.ID]
	if !ok {
		return domain.Director{}, ErrNotFound
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = time.Now().UTC()
	s.directors[d.ID] = d
	return d, nil
}

func (s *MemoryStore) DeleteDirector(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.directors[id]; !ok {
		return ErrNotFound
	}
	for mid, m := range s.movies {
		if m.DirectorID != nil && *m.DirectorID == id {
			m.DirectorID = nil
			s.movies[mid] = m
		}
	}
	delete(s.directors, id)
	return nil
}

func (s *MemoryStore) CountDirectors(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.directors), nil
}

// reviews

func (s *MemoryStore) CreateReview(_ context.Context, r domain.Review) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[r.MovieID]; !ok {
		return domain.Review{}, ErrNotFound
	}
	for _, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.MovieID == r.MovieID {
			return domain.Review{}, ErrDuplicate
		}
	}
	r.ID = s.nextID()
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	r.LikesCount = 0
	r.User, r.Movie = nil, nil
	s.reviews[r.ID] = r
	s.recomputeAggregates(r.MovieID)
	return s.reviewDetailLocked(s.reviews[r.ID]), nil
}

func (s *MemoryStore) GetReview(_ context.Context, id int64) (domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return domain.Review{}, ErrNotFound
	}
	return s.reviewDetailLocked(r), nil
}

func (s *MemoryStore) UpdateReview(_ context.Context, id int64, upd ReviewUpdate) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return domain.Review{}, ErrNotFound
	}
	if upd.Rating != nil {
		r.Rating = *upd.Rating
	}
	if upd.Title != nil {
		r.Title = *upd.Title
	}
	if upd.ReviewText != nil {
		r.ReviewText = *upd.ReviewText
	}
	if upd.IsApproved != nil {
		r.IsApproved = *upd.IsApproved
	}
	r.UpdatedAt = time.Now().UTC()
	s.reviews[id] = r
	if upd.Rating != nil || upd.IsApproved != nil {
		s.recomputeAggregates(r.MovieID)
	}
	return s.reviewDetailLocked(r), nil
}

func (s *MemoryStore) DeleteReview(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return ErrNotFound
	}
	for key := range s.reviewLikes {
		if key.TargetID == id {
			delete(s.reviewLikes, key)
		}
	}
	delete(s.reviews, id)
	s.recomputeAggregates(r.MovieID)
	return nil
}

func (s *MemoryStore) ListMovieReviews(_ context.Context, movieID int64, viewerID *int64, page, limit int) ([]domain.Review, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.Review
	for _, r := range s.reviews {
		if r.MovieID != movieID {
			continue
		}
		if !r.IsApproved && (viewerID == nil || *viewerID != r.UserID) {
			continue
		}
		matched = append(matched, s.reviewWithUserLocked(r))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].LikesCount != matched[j].LikesCount {
			return matched[i].LikesCount > matched[j].LikesCount
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	return paginate(matched, page, limit), total, nil
}

func (s *MemoryStore) ListUserReviews(_ context.Context, userID int64, page, limit int) ([]domain.Review, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.Review
	for _, r := range s.reviews {
		if r.UserID == userID {
			matched = append(matched, s.reviewWithMovieLocked(r))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	return paginate(matched, page, limit), total, nil
}

func (s *MemoryStore) LatestReviews(_ context.Context, limit int) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.Review
	for _, r := range s.reviews {
		if r.IsApproved {
			matched = append(matched, s.reviewDetailLocked(r))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryStore) CountApprovedReviews(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.reviews {
		if r.IsApproved {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) TopReviewers(_ context.Context, limit int) ([]domain.ReviewerStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type acc struct {
		count int
		sum   int
	}
	byUser := make(map[int64]*acc)
	for _, r := range s.reviews {
		if !r.IsApproved {
			continue
		}
		a, ok := byUser[r.UserID]
		if !ok {
			a = &acc{}
			byUser[r.UserID] = a
		}
		a.count++
		a.sum += r.Rating
	}
	var stats []domain.ReviewerStat
	for uid, a := range byUser {
		u, ok := s.users[uid]
		if !ok {
			continue
		}
		stats = append(stats, domain.ReviewerStat{
			User:        domain.UserRef{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL},
			ReviewCount: a.count,
			AvgRating:   float64(a.sum) / float64(a.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].ReviewCount > stats[j].ReviewCount })
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

func (s *MemoryStore) reviewWithUserLocked(r domain.Review) domain.Review {
	if u, ok := s.users[r.UserID]; ok {
		r.User = &domain.UserRef{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
	}
	return r
}

func (s *MemoryStore) reviewWithMovieLocked(r domain.Review) domain.Review {
	if m, ok := s.movies[r.MovieID]; ok {
		r.Movie = &domain.MovieRef{
			ID:          m.ID,
			Title:       m.Title,
			Slug:        m.Slug,
			PosterURL:   m.PosterURL,
			ReleaseYear: m.ReleaseYear,
			AvgRating:   m.AvgRating,
		}
	}
	return r
}

func (s *MemoryStore) reviewDetailLocked(r domain.Review) domain.Review {
	return s.reviewWithMovieLocked(s.reviewWithUserLocked(r))
}

// review likes

func (s *MemoryStore) LikeReview(_ context.Context, reviewID, userID int64) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[reviewID]
	if !ok {
		return domain.Review{}, ErrNotFound
	}
	key := likeKey{TargetID: reviewID, UserID: userID}
	if _, liked := s.reviewLikes[key]; liked {
		return domain.Review{}, ErrDuplicate
	}
	s.reviewLikes[key] = time.Now().UTC()
	r.LikesCount++
	s.reviews[reviewID] = r
	return s.reviewDetailLocked(r), nil
}

func (s *MemoryStore) UnlikeReview(_ context.Context, reviewID, userID int64) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[reviewID]
	if !ok {
		return domain.Review{}, ErrNotFound
	}
	key := likeKey{TargetID: reviewID, UserID: userID}
	if _, liked := s.reviewLikes[key]; !liked {
		return domain.Review{}, ErrNotFound
	}
	delete(s.reviewLikes, key)
	if r.LikesCount > 0 {
		r.LikesCount--
	}
	s.reviews[reviewID] = r
	return s.reviewDetailLocked(r), nil
}

func (s *MemoryStore) ListReviewLikes(_ context.Context, reviewID int64) ([]domain.ReviewLike, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.reviews[reviewID]; !ok {
		return nil, ErrNotFound
	}
	var likes []domain.ReviewLike
	for key, at := range s.reviewLikes {
		if key.TargetID != reviewID {
			continue
		}
		like := domain.ReviewLike{ReviewID: reviewID, UserID: key.UserID, CreatedAt: at}
		if u, ok := s.users[key.UserID]; ok {
			like.User = &domain.UserRef{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
		}
		likes = append(likes, like)
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].CreatedAt.After(likes[j].CreatedAt) })
	return likes, nil
}

// movie likes

func (s *MemoryStore) LikeMovie(_ context.Context, movieID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[movieID]
	if !ok {
		return ErrNotFound
	}
	key := likeKey{TargetID: movieID, UserID: userID}
	if _, liked := s.movieLikes[key]; liked {
		return nil
	}
	s.movieLikes[key] = time.Now().UTC()
	m.LikesCount++
	s.movies[movieID] = m
	return nil
}

func (s *MemoryStore) UnlikeMovie(_ context.Context, movieID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[movieID]
	if !ok {
		return ErrNotFound
	}
	key := likeKey{TargetID: movieID, UserID: userID}
	if _, liked := s.movieLikes[key]; !liked {
		return nil
	}
	delete(s.movieLikes, key)
	if m.LikesCount > 0 {
		m.LikesCount--
	}
	s.movies[movieID] = m
	return nil
}

// bookmarks

func (s *MemoryStore) CreateBookmark(_ context.Context, b domain.Bookmark) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[b.MovieID]; !ok {
		return domain.Bookmark{}, ErrNotFound
	}
	for _, existing := range s.bookmarks {
		if existing.UserID == b.UserID && existing.MovieID == b.MovieID && existing.Folder == b.Folder {
			return domain.Bookmark{}, ErrDuplicate
		}
	}
	b.ID = s.nextID()
	b.CreatedAt = time.Now().UTC()
	b.Movie = nil
	s.bookmarks[b.ID] = b
	return s.bookmarkWithMovieLocked(b), nil
}

func (s *MemoryStore) ListBookmarks(_ context.Context, userID int64, folder string) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.Bookmark
	for _, b := range s.bookmarks {
		if b.UserID != userID {
			continue
		}
		if folder != "" && b.Folder != folder {
			continue
		}
		matched = append(matched, s.bookmarkWithMovieLocked(b))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

func (s *MemoryStore) UpdateBookmark(_ context.Context, id, userID int64, folder, notes *string) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookmarks[id]
	if !ok || b.UserID != userID {
		return domain.Bookmark{}, ErrNotFound
	}
	if folder != nil {
		for _, other := range s.bookmarks {
			if other.ID != id && other.UserID == userID &&
				other.MovieID == b.MovieID && other.Folder == *folder {
				return domain.Bookmark{}, ErrDuplicate
			}
		}
		b.Folder = *folder
	}
	if notes != nil {
		b.Notes = *notes
	}
	s.bookmarks[id] = b
	return s.bookmarkWithMovieLocked(b), nil
}

func (s *MemoryStore) DeleteBookmark(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookmarks[id]
	if !ok || b.UserID != userID {
		return ErrNotFound
	}
	delete(s.bookmarks, id)
	return nil
}

func (s *MemoryStore) BookmarkFolders(_ context.Context, userID int64) ([]domain.FolderCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			counts[b.Folder]++
		}
	}
	var folders []domain.FolderCount
	for folder, n := range counts {
		folders = append(folders, domain.FolderCount{Folder: folder, Count: n})
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Folder < folders[j].Folder })
	return folders, nil
}

func (s *MemoryStore) bookmarkWithMovieLocked(b domain.Bookmark) domain.Bookmark {
	if m, ok := s.movies[b.MovieID]; ok {
		b.Movie = &domain.MovieRef{
			ID:          m.ID,
			Title:       m.Title,
			Slug:        m.Slug,
			PosterURL:   m.PosterURL,
			ReleaseYear: m.ReleaseYear,
			AvgRating:   m.AvgRating,
		}
	}
	return b
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := pageOffset(page, limit)
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
