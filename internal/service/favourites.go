package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/countries-explorer/explorer/internal/analytics"
	"github.com/countries-explorer/explorer/internal/catalog"
	"github.com/countries-explorer/explorer/internal/metrics"
	"github.com/countries-explorer/explorer/internal/model"
	"github.com/countries-explorer/explorer/internal/repository"
	"github.com/countries-explorer/explorer/internal/store"
)

const (
	maxCountryNameLength = 200
	// maxMemos caps the per-user analytics memos kept in memory.
	maxMemos = 1024
)

// FavouriteService handles favourites and their analytics.
type FavouriteService struct {
	repo      FavouriteStore
	countries *CountryService
	opts      analytics.Options
	metrics   metrics.Recorder
	logger    *slog.Logger

	mu    sync.Mutex
	memos map[string]*analytics.Memo
}

// NewFavouriteService creates a new FavouriteService.
func NewFavouriteService(repo FavouriteStore, countries *CountryService, opts analytics.Options, recorder metrics.Recorder, logger *slog.Logger) *FavouriteService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FavouriteService{
		repo:      repo,
		countries: countries,
		opts:      opts,
		metrics:   recorder,
		logger:    logger.With("component", "favourites"),
		memos:     make(map[string]*analytics.Memo),
	}
}

// List returns the user's favourites, newest first.
func (s *FavouriteService) List(ctx context.Context, userID string) ([]model.Favourite, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	favs, err := s.repo.ListFavourites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFavouritesUnavailable, err)
	}
	return favs, nil
}

// Add saves countryName as a favourite of the user. The name is resolved
// against the catalog and stored under the country's common name together
// with its code and a copy of the record.
func (s *FavouriteService) Add(ctx context.Context, userID, countryName string) (*model.Favourite, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	name, err := validateCountryName(countryName)
	if err != nil {
		return nil, err
	}

	countries, err := s.countries.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	country, ok := catalog.FindByName(countries, name)
	if !ok {
		return nil, ErrCountryNotFound
	}

	fav := &model.Favourite{
		UserID:      userID,
		CountryName: country.Name.Common,
		CountryCode: country.CCA3,
		Country:     &country,
	}
	if err := s.repo.UpsertFavourite(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrInvalidFavourite) {
			return nil, ErrInvalidCountryName
		}
		return nil, fmt.Errorf("failed to save favourite: %w", err)
	}

	s.metrics.IncFavouriteAdded()
	s.logger.Info("favourite added", "user_id", userID, "country", fav.CountryName)
	return fav, nil
}

// Remove deletes the user's favourite by country name.
func (s *FavouriteService) Remove(ctx context.Context, userID, countryName string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	name, err := validateCountryName(countryName)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteFavouriteByName(ctx, userID, name); err != nil {
		if errors.Is(err, repository.ErrFavouriteNotFound) {
			return ErrFavouriteNotFound
		}
		return fmt.Errorf("failed to remove favourite: %w", err)
	}

	s.metrics.IncFavouriteRemoved()
	s.logger.Info("favourite removed", "user_id", userID, "country", name)
	return nil
}

// Analytics loads the catalog and the user's favourites concurrently and
// summarizes them. A catalog that cannot be loaded yields the zero summary;
// favourites that cannot be loaded are an error.
func (s *FavouriteService) Analytics(ctx context.Context, userID string) (model.AnalyticsSummary, error) {
	if userID == "" {
		return model.EmptyAnalyticsSummary(), ErrUnauthenticated
	}

	st := store.New()
	countriesReq := st.BeginFetchCountries()
	favouritesReq := st.BeginFetchFavourites()

	var catalogVersion uint64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := s.countries.Snapshot(gctx)
		if err != nil {
			st.Dispatch(store.FetchCountriesRejected{RequestID: countriesReq, Err: err})
			return nil
		}
		catalogVersion = snap.Version
		st.Dispatch(store.FetchCountriesFulfilled{RequestID: countriesReq, Countries: snap.Countries})
		return nil
	})
	g.Go(func() error {
		favs, err := s.repo.ListFavourites(gctx, userID)
		if err != nil {
			st.Dispatch(store.FetchFavouritesRejected{RequestID: favouritesReq, Err: err})
			return fmt.Errorf("%w: %v", ErrFavouritesUnavailable, err)
		}
		st.Dispatch(store.FetchFavouritesFulfilled{RequestID: favouritesReq, Favourites: favs})
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.EmptyAnalyticsSummary(), err
	}

	state := st.State()
	if !state.Ready() {
		s.logger.Warn("analytics computed without catalog",
			"user_id", userID,
			"error", state.Countries.Error,
		)
		return model.EmptyAnalyticsSummary(), nil
	}

	key := analytics.Key{
		Favourites: fingerprint(state.Favourites.Items),
		Countries:  catalogVersion,
	}
	memo := s.memo(userID)
	before := memo.Runs()
	summary := memo.Get(key, state.Favourites.Items, state.Countries.Items)
	if memo.Runs() != before {
		s.metrics.IncAnalyticsComputed()
	}
	return summary, nil
}

// Forget drops cached analytics for the user.
func (s *FavouriteService) Forget(userID string) {
	s.mu.Lock()
	delete(s.memos, userID)
	s.mu.Unlock()
}

func (s *FavouriteService) memo(userID string) *analytics.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.memos[userID]; ok {
		return m
	}
	if len(s.memos) >= maxMemos {
		s.memos = make(map[string]*analytics.Memo)
	}
	m := analytics.NewMemo(s.opts)
	s.memos[userID] = m
	return m
}

// fingerprint identifies a favourites list by the fields analytics reads.
func fingerprint(favs []model.Favourite) uint64 {
	d := xxhash.New()
	for _, f := range favs {
		_, _ = d.WriteString(f.ID)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(f.CountryName)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(f.CountryCode)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(strconv.FormatInt(f.UpdatedAt.UnixNano(), 10))
		_, _ = d.WriteString("\x01")
	}
	return d.Sum64()
}

func validateCountryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxCountryNameLength {
		return "", ErrInvalidCountryName
	}
	return name, nil
}
