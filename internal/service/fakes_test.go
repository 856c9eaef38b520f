package service

import (
	"context"
	"sync"
	"time"

	"car_dealership/internal/model"
	"car_dealership/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]model.User{}}
}

func (r *fakeUserRepo) conflict(u *model.User) error {
	for id, other := range r.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
		if other.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	return nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(u); err != nil {
		return err
	}
	r.nextID++
	u.ID = r.nextID
	u.DateJoined = time.Now()
	u.Favorites = []int64{}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := []model.User{}
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict(u); err != nil {
		return err
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.PasswordHash = hash
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) DeleteNonAdmin(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Role == model.RoleAdmin {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

type fakeCarRepo struct {
	mu          sync.Mutex
	cars        map[int64]model.Car
	nextID      int64
	lastFilters model.CarFilters
}

func newFakeCarRepo(cars ...model.Car) *fakeCarRepo {
	r := &fakeCarRepo{cars: map[int64]model.Car{}}
	for _, c := range cars {
		r.cars[c.ID] = c
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

func (r *fakeCarRepo) Create(_ context.Context, c *model.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.cars[c.ID] = *c
	return nil
}

func (r *fakeCarRepo) FindByID(_ context.Context, id int64) (*model.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCarRepo) List(_ context.Context, filters model.CarFilters) ([]model.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilters = filters
	cars := []model.Car{}
	for _, c := range r.cars {
		cars = append(cars, c)
	}
	return cars, nil
}

func (r *fakeCarRepo) Update(_ context.Context, c *model.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.UpdatedAt = time.Now()
	r.cars[c.ID] = *c
	return nil
}

func (r *fakeCarRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[id]; !ok {
		return false, nil
	}
	delete(r.cars, id)
	return true, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[int64]model.Message
	nextID   int64
	cars     *fakeCarRepo
}

func newFakeMessageRepo(cars *fakeCarRepo) *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[int64]model.Message{}, cars: cars}
}

func (r *fakeMessageRepo) carExists(id *int64) bool {
	if id == nil || r.cars == nil {
		return true
	}
	c, _ := r.cars.FindByID(context.Background(), *id)
	return c != nil
}

func (r *fakeMessageRepo) Create(_ context.Context, m *model.Message) error {
	if !r.carExists(m.CarID) {
		return repository.ErrCarReference
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	m.ID = r.nextID
	m.Read = false
	m.CreatedAt = time.Now()
	r.messages[m.ID] = *m
	return nil
}

func (r *fakeMessageRepo) FindByID(_ context.Context, id int64) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *fakeMessageRepo) List(_ context.Context) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages := []model.Message{}
	for _, m := range r.messages {
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *fakeMessageRepo) Update(_ context.Context, m *model.Message) error {
	if !r.carExists(m.CarID) {
		return repository.ErrCarReference
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[m.ID] = *m
	return nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, id int64) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, nil
	}
	m.Read = true
	r.messages[id] = m
	return &m, nil
}

func (r *fakeMessageRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[id]; !ok {
		return false, nil
	}
	delete(r.messages, id)
	return true, nil
}

type favoriteKey struct{ userID, carID int64 }

type fakeFavoriteRepo struct {
	mu     sync.Mutex
	links  map[favoriteKey]bool
	cars   *fakeCarRepo
	addErr error
}

func newFakeFavoriteRepo(cars *fakeCarRepo) *fakeFavoriteRepo {
	return &fakeFavoriteRepo{links: map[favoriteKey]bool{}, cars: cars}
}

func (r *fakeFavoriteRepo) Add(_ context.Context, userID, carID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		return false, r.addErr
	}
	k := favoriteKey{userID, carID}
	if r.links[k] {
		return false, nil
	}
	r.links[k] = true
	return true, nil
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID, carID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := favoriteKey{userID, carID}
	if !r.links[k] {
		return false, nil
	}
	delete(r.links, k)
	return true, nil
}

func (r *fakeFavoriteRepo) Exists(_ context.Context, userID, carID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.links[favoriteKey{userID, carID}], nil
}

func (r *fakeFavoriteRepo) ListCars(ctx context.Context, userID int64) ([]model.Car, error) {
	r.mu.Lock()
	var ids []int64
	for k := range r.links {
		if k.userID == userID {
			ids = append(ids, k.carID)
		}
	}
	r.mu.Unlock()
	cars := []model.Car{}
	for _, id := range ids {
		if c, _ := r.cars.FindByID(ctx, id); c != nil {
			cars = append(cars, *c)
		}
	}
	return cars, nil
}

type fakeStatsRepo struct {
	stats model.AdminStats
	err   error
}

func (r *fakeStatsRepo) AdminStats(_ context.Context) (*model.AdminStats, error) {
	if r.err != nil {
		return nil, r.err
	}
	s := r.stats
	return &s, nil
}

var (
	adminActor  = model.Principal{UserID: 1, Role: model.RoleAdmin}
	clientActor = model.Principal{UserID: 2, Role: model.RoleClient}
)

func testCar(id int64, brand, mdl string) model.Car {
	return model.Car{
		ID: id, Brand: brand, Model: mdl, Year: 2020, Price: model.MustPrice("15000"),
		Images: []string{}, Description: "test car", FuelType: model.FuelGasoline,
		Transmission: model.TransmissionManual, Color: model.DefaultCarColor, Available: true,
	}
}
