package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"app/internal/media"
	"app/internal/model"
	"app/internal/payment"
	"app/internal/pubsub"

	"github.com/google/uuid"
)

// In-memory stand-ins for the document store, the media host, the payment
// gateway and the event publisher. They mirror the repository contracts,
// including the (nil, nil) lookup miss convention.

type fakeCourseRepo struct {
	courses map[string]model.Course
	// lecture id lists keyed by course id, in insertion order
	lectureRefs map[string][]string
	creators    map[string]model.User

	failUpdate error
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:     map[string]model.Course{},
		lectureRefs: map[string][]string{},
	}
}

func (f *fakeCourseRepo) CreateCourse(_ context.Context, c *model.Course) error {
	f.courses[c.CourseID] = *c
	return nil
}

func (f *fakeCourseRepo) GetCourseByID(_ context.Context, courseID string) (*model.Course, error) {
	c, ok := f.courses[courseID]
	if !ok {
		return nil, nil
	}
	c.LectureIDs = append([]string{}, f.lectureRefs[courseID]...)
	return &c, nil
}

func (f *fakeCourseRepo) UpdateCourse(_ context.Context, c *model.Course) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	if _, ok := f.courses[c.CourseID]; !ok {
		return fmt.Errorf("update missing course %s", c.CourseID)
	}
	f.courses[c.CourseID] = *c
	return nil
}

func (f *fakeCourseRepo) GetCoursesByCreator(_ context.Context, creatorID string) ([]model.Course, error) {
	out := []model.Course{}
	for id, c := range f.courses {
		if c.CreatorID == creatorID {
			c.LectureIDs = append([]string{}, f.lectureRefs[id]...)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (f *fakeCourseRepo) GetPublishedCourses(_ context.Context) ([]model.CourseWithCreator, error) {
	out := []model.CourseWithCreator{}
	for id, c := range f.courses {
		if !c.IsPublished {
			continue
		}
		c.LectureIDs = append([]string{}, f.lectureRefs[id]...)
		cc := model.CourseWithCreator{Course: c}
		if creator, ok := f.creators[c.CreatorID]; ok {
			cc.CreatorName = creator.Name
			cc.CreatorPhoto = creator.Photo.URL
		}
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (f *fakeCourseRepo) AppendLecture(_ context.Context, courseID, lectureID string) error {
	for _, id := range f.lectureRefs[courseID] {
		if id == lectureID {
			return nil
		}
	}
	f.lectureRefs[courseID] = append(f.lectureRefs[courseID], lectureID)
	return nil
}

func (f *fakeCourseRepo) ContainsLecture(_ context.Context, courseID, lectureID string) (bool, error) {
	for _, id := range f.lectureRefs[courseID] {
		if id == lectureID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseRepo) RemoveLectureRefs(_ context.Context, lectureID string) error {
	for courseID, ids := range f.lectureRefs {
		kept := ids[:0]
		for _, id := range ids {
			if id != lectureID {
				kept = append(kept, id)
			}
		}
		f.lectureRefs[courseID] = kept
	}
	return nil
}

type fakeLectureRepo struct {
	lectures map[string]model.Lecture
	// owning course per lecture, mirrors course_lectures for ordered listing
	owner *fakeCourseRepo
}

func newFakeLectureRepo(owner *fakeCourseRepo) *fakeLectureRepo {
	return &fakeLectureRepo{lectures: map[string]model.Lecture{}, owner: owner}
}

func (f *fakeLectureRepo) CreateLecture(_ context.Context, l *model.Lecture) error {
	f.lectures[l.ID] = *l
	return nil
}

func (f *fakeLectureRepo) GetLectureByID(_ context.Context, lectureID string) (*model.Lecture, error) {
	l, ok := f.lectures[lectureID]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (f *fakeLectureRepo) GetLecturesByCourseID(_ context.Context, courseID string) ([]model.Lecture, error) {
	out := []model.Lecture{}
	for _, id := range f.owner.lectureRefs[courseID] {
		if l, ok := f.lectures[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLectureRepo) UpdateLecture(_ context.Context, l *model.Lecture) error {
	if _, ok := f.lectures[l.ID]; !ok {
		return fmt.Errorf("update missing lecture %s", l.ID)
	}
	f.lectures[l.ID] = *l
	return nil
}

func (f *fakeLectureRepo) DeleteLecture(_ context.Context, lectureID string) error {
	delete(f.lectures, lectureID)
	return nil
}

type fakeUserRepo struct {
	users       map[string]model.User
	enrollments map[string][]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]model.User{}, enrollments: map[string][]string{}}
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	u.EnrolledCourseIDs = append([]string{}, f.enrollments[id]...)
	return &u, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, u *model.User) error {
	if _, ok := f.users[u.UserID]; !ok {
		return fmt.Errorf("update missing user %s", u.UserID)
	}
	f.users[u.UserID] = *u
	return nil
}

func (f *fakeUserRepo) AddEnrollment(_ context.Context, userID, courseID string) error {
	for _, id := range f.enrollments[userID] {
		if id == courseID {
			return nil
		}
	}
	f.enrollments[userID] = append(f.enrollments[userID], courseID)
	return nil
}

func (f *fakeUserRepo) GetEnrolledCourseIDs(_ context.Context, userID string) ([]string, error) {
	return append([]string{}, f.enrollments[userID]...), nil
}

type fakePurchaseRepo struct {
	purchases map[string]model.Purchase // by purchase id
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{purchases: map[string]model.Purchase{}}
}

func (f *fakePurchaseRepo) CreatePurchase(_ context.Context, p *model.Purchase) error {
	f.purchases[p.ID] = *p
	return nil
}

func (f *fakePurchaseRepo) GetPurchaseBySessionID(_ context.Context, sessionID string) (*model.Purchase, error) {
	for _, p := range f.purchases {
		if p.SessionID == sessionID {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePurchaseRepo) UpdatePurchaseStatus(_ context.Context, purchaseID, status string) error {
	p, ok := f.purchases[purchaseID]
	if !ok {
		return fmt.Errorf("update missing purchase %s", purchaseID)
	}
	p.Status = status
	f.purchases[purchaseID] = p
	return nil
}

type fakeMediaStore struct {
	objects map[string][]byte // key -> data

	uploadErr error
	deleteErr error
	deleted   []string
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: map[string][]byte{}}
}

func (f *fakeMediaStore) Upload(_ context.Context, folder string, data []byte, _ string) (*media.Asset, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	key := folder + "/" + uuid.NewString()
	f.objects[key] = data
	return &media.Asset{Key: key, URL: "https://media.test/" + key}, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

type fakeGateway struct {
	sessions  map[string]string // session id -> course id
	verifyErr error
	notif     *payment.Notification
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]string{}}
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, course *model.Course, _ string) (*payment.CheckoutSession, error) {
	id := "cs_" + uuid.NewString()
	f.sessions[id] = course.CourseID
	return &payment.CheckoutSession{ID: id, RedirectURL: "https://pay.test/" + id}, nil
}

func (f *fakeGateway) VerifyNotification(_ []byte, _ string) (*payment.Notification, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.notif, nil
}

type fakePublisher struct {
	events     []pubsub.PurchaseEvent
	publishErr error
}

func (f *fakePublisher) PublishPurchaseCompleted(_ context.Context, event pubsub.PurchaseEvent) (string, error) {
	if f.publishErr != nil {
		return "", f.publishErr
	}
	f.events = append(f.events, event)
	return fmt.Sprintf("msg-%d", len(f.events)), nil
}

var errBoom = errors.New("boom")
