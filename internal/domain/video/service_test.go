package video_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/funtube/funtube-server/internal/config"
	"github.com/funtube/funtube-server/internal/domain/user"
	"github.com/funtube/funtube-server/internal/domain/video"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

// mp4Header carries an ftyp box so content sniffing sees video/mp4.
func mp4Header() []byte {
	return []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm',
		0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'i', 's', 'o', '2',
	}
}

// pngHeader carries the PNG signature so content sniffing sees image/png.
func pngHeader() []byte {
	return []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0x00, 0x00, 0x0d}
}

type mockVideoRepo struct {
	videos map[string]*video.Video
	order  []string
}

func newMockVideoRepo() *mockVideoRepo {
	return &mockVideoRepo{videos: make(map[string]*video.Video)}
}

func (m *mockVideoRepo) Create(ctx context.Context, v *video.Video) error {
	clone := *v
	m.videos[v.ID] = &clone
	m.order = append(m.order, v.ID)
	return nil
}

func (m *mockVideoRepo) FindByID(ctx context.Context, id string) (*video.Video, error) {
	v, ok := m.videos[id]
	if !ok {
		return nil, nil
	}
	clone := *v
	return &clone, nil
}

func (m *mockVideoRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.videos[id]
	return ok, nil
}

func (m *mockVideoRepo) IncrementViews(ctx context.Context, id string) (*video.Video, error) {
	v, ok := m.videos[id]
	if !ok {
		return nil, nil
	}
	v.Views++
	clone := *v
	return &clone, nil
}

// newestFirst returns all videos sorted by creation time descending.
func (m *mockVideoRepo) newestFirst() []*video.Video {
	out := make([]*video.Video, 0, len(m.videos))
	for _, v := range m.videos {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockVideoRepo) List(ctx context.Context, params video.ListParams) ([]*video.Video, int64, error) {
	all := m.newestFirst()
	if params.Search != "" {
		filtered := all[:0]
		for _, v := range all {
			if strings.Contains(strings.ToLower(v.Title), strings.ToLower(params.Search)) {
				filtered = append(filtered, v)
			}
		}
		all = filtered
	}
	total := int64(len(all))
	start := (params.Page - 1) * params.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + params.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *mockVideoRepo) FindByOwner(ctx context.Context, ownerID string) ([]*video.Video, error) {
	var out []*video.Video
	for _, v := range m.newestFirst() {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockVideoRepo) FindRelated(ctx context.Context, sourceID string, tags []string, limit int) ([]*video.Video, error) {
	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}
	var out []*video.Video
	for _, v := range m.newestFirst() {
		if v.ID == sourceID {
			continue
		}
		if len(tags) > 0 {
			overlap := false
			for _, tag := range v.Tags {
				if tagSet[tag] {
					overlap = true
					break
				}
			}
			if !overlap {
				continue
			}
		}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockVideoRepo) FindMostViewed(ctx context.Context, excludeIDs []string, limit int) ([]*video.Video, error) {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []*video.Video
	for _, v := range m.videos {
		if !excluded[v.ID] {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockVideoRepo) Update(ctx context.Context, v *video.Video) error {
	clone := *v
	m.videos[v.ID] = &clone
	return nil
}

func (m *mockVideoRepo) Delete(ctx context.Context, id string) error {
	delete(m.videos, id)
	return nil
}

type edge struct{ from, to string }

type mockLikeRepo struct {
	edges map[edge]bool
}

func newMockLikeRepo() *mockLikeRepo {
	return &mockLikeRepo{edges: make(map[edge]bool)}
}

func (m *mockLikeRepo) Add(ctx context.Context, userID, videoID string) error {
	m.edges[edge{userID, videoID}] = true
	return nil
}

func (m *mockLikeRepo) Remove(ctx context.Context, userID, videoID string) error {
	delete(m.edges, edge{userID, videoID})
	return nil
}

func (m *mockLikeRepo) Count(ctx context.Context, videoID string) (int64, error) {
	var count int64
	for e := range m.edges {
		if e.to == videoID {
			count++
		}
	}
	return count, nil
}

func (m *mockLikeRepo) Exists(ctx context.Context, userID, videoID string) (bool, error) {
	return m.edges[edge{userID, videoID}], nil
}

func (m *mockLikeRepo) CountByVideo(ctx context.Context, videoIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, id := range videoIDs {
		n, _ := m.Count(ctx, id)
		if n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (m *mockLikeRepo) LikedBy(ctx context.Context, userID string, videoIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	for _, id := range videoIDs {
		if m.edges[edge{userID, id}] {
			liked[id] = true
		}
	}
	return liked, nil
}

func (m *mockLikeRepo) RemoveByVideo(ctx context.Context, videoID string) error {
	for e := range m.edges {
		if e.to == videoID {
			delete(m.edges, e)
		}
	}
	return nil
}

type historyRow struct {
	watchedAt time.Time
}

type mockHistoryRepo struct {
	videos *mockVideoRepo
	rows   map[edge]historyRow
}

func newMockHistoryRepo(videos *mockVideoRepo) *mockHistoryRepo {
	return &mockHistoryRepo{videos: videos, rows: make(map[edge]historyRow)}
}

func (m *mockHistoryRepo) Upsert(ctx context.Context, userID, videoID string, watchedAt time.Time) error {
	m.rows[edge{userID, videoID}] = historyRow{watchedAt: watchedAt}
	return nil
}

func (m *mockHistoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*video.HistoryEntry, error) {
	var entries []*video.HistoryEntry
	for e, row := range m.rows {
		if e.from != userID {
			continue
		}
		v, ok := m.videos.videos[e.to]
		if !ok {
			continue
		}
		entries = append(entries, &video.HistoryEntry{WatchedAt: row.watchedAt, Video: *v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].WatchedAt.After(entries[j].WatchedAt) })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *mockHistoryRepo) RemoveByVideo(ctx context.Context, videoID string) error {
	for e := range m.rows {
		if e.to == videoID {
			delete(m.rows, e)
		}
	}
	return nil
}

type mockSubscriptionReader struct {
	edges map[edge]bool
}

func newMockSubscriptionReader() *mockSubscriptionReader {
	return &mockSubscriptionReader{edges: make(map[edge]bool)}
}

func (m *mockSubscriptionReader) CountForChannel(ctx context.Context, channelID string) (int64, error) {
	var count int64
	for e := range m.edges {
		if e.to == channelID {
			count++
		}
	}
	return count, nil
}

func (m *mockSubscriptionReader) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	return m.edges[edge{subscriberID, channelID}], nil
}

type mockOwnerReader struct {
	users map[string]*user.User
}

func (m *mockOwnerReader) FindByID(ctx context.Context, id string) (*user.User, error) {
	return m.users[id], nil
}

type mockStorage struct {
	objects map[string][]byte
	deleted []string
	uploads int
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: make(map[string][]byte)}
}

func (m *mockStorage) Upload(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (*video.StoredObject, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	m.uploads++
	key := fmt.Sprintf("%s/%d-%s", folder, m.uploads, filename)
	m.objects[key] = data
	return &video.StoredObject{Key: key, URL: "/uploads/" + key}, nil
}

func (m *mockStorage) Delete(ctx context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	delete(m.objects, strings.TrimPrefix(url, "/uploads/"))
	return nil
}

type fixture struct {
	svc     *video.Service
	videos  *mockVideoRepo
	likes   *mockLikeRepo
	history *mockHistoryRepo
	subs    *mockSubscriptionReader
	owners  *mockOwnerReader
	storage *mockStorage
}

func newFixture() *fixture {
	cfg := &config.Config{
		AppBaseURL:        "http://localhost:8080",
		MaxVideoBytes:     1 << 20,
		MaxThumbnailBytes: 1 << 20,
	}
	videos := newMockVideoRepo()
	likes := newMockLikeRepo()
	history := newMockHistoryRepo(videos)
	subs := newMockSubscriptionReader()
	owners := &mockOwnerReader{users: make(map[string]*user.User)}
	store := newMockStorage()
	svc := video.NewService(cfg, videos, likes, history, subs, owners, store, zerolog.Nop())
	return &fixture{svc: svc, videos: videos, likes: likes, history: history, subs: subs, owners: owners, storage: store}
}

func (f *fixture) addUser(id, username string) *user.User {
	u := &user.User{ID: id, Username: username, ChannelDescription: "hello"}
	f.owners.users[id] = u
	return u
}

func (f *fixture) addVideo(id, ownerID string, tags []string, views int64, createdAt time.Time) *video.Video {
	v := &video.Video{
		ID:           id,
		OwnerID:      ownerID,
		Owner:        user.Summary{ID: ownerID},
		Title:        "video " + id,
		ThumbnailURL: "/uploads/thumbnails/" + id,
		VideoURL:     "/uploads/videos/" + id,
		Tags:         tags,
		Views:        views,
		CreatedAt:    createdAt,
	}
	f.videos.videos[id] = v
	return v
}

func videoID(n int) string {
	return fmt.Sprintf("vid_%024d", n)
}

func TestList_PaginationBounds(t *testing.T) {
	f := newFixture()
	base := time.Now()
	for i := 0; i < 25; i++ {
		f.addVideo(videoID(i), "user_owner", nil, 0, base.Add(time.Duration(i)*time.Second))
	}
	ctx := context.Background()

	page, err := f.svc.List(ctx, nil, video.ListParams{Page: 2, Limit: 12})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 12 {
		t.Fatalf("expected 12 items, got %d", len(page.Items))
	}
	if page.Total != 25 {
		t.Fatalf("expected total 25, got %d", page.Total)
	}
	if !page.HasMore {
		t.Fatal("expected hasMore on page 2 of 25/12")
	}

	last, err := f.svc.List(ctx, nil, video.ListParams{Page: 3, Limit: 12})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(last.Items) != 1 {
		t.Fatalf("expected 1 item on the last page, got %d", len(last.Items))
	}
	if last.HasMore {
		t.Fatal("expected hasMore=false on the last page")
	}
}

func TestList_ClampsLimitAndPage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	page, err := f.svc.List(ctx, nil, video.ListParams{Page: -3, Limit: 500})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", page.Page)
	}
	if page.Limit != video.MaxPageSize {
		t.Fatalf("expected limit clamped to %d, got %d", video.MaxPageSize, page.Limit)
	}

	page, err = f.svc.List(ctx, nil, video.ListParams{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Limit != video.DefaultPageSize {
		t.Fatalf("expected default limit %d, got %d", video.DefaultPageSize, page.Limit)
	}
}

func TestGet_IncrementsViewsAndEnriches(t *testing.T) {
	f := newFixture()
	owner := f.addUser("user_owner", "creator")
	viewer := f.addUser("user_viewer", "viewer")
	v := f.addVideo(videoID(1), owner.ID, nil, 5, time.Now())
	f.likes.Add(context.Background(), viewer.ID, v.ID)
	f.subs.edges[edge{viewer.ID, owner.ID}] = true
	ctx := context.Background()

	detail, err := f.svc.Get(ctx, viewer, v.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if detail.Views != 6 {
		t.Fatalf("expected views bumped to 6, got %d", detail.Views)
	}
	if detail.LikesCount != 1 || !detail.LikedByMe {
		t.Fatalf("unexpected like aggregate: %+v", detail.Enriched)
	}
	if detail.Channel.SubscriberCount != 1 || !detail.Channel.IsSubscribed {
		t.Fatalf("unexpected channel aggregate: %+v", detail.Channel)
	}
	if detail.Channel.Username != "creator" || detail.Channel.ChannelDescription != "hello" {
		t.Fatalf("unexpected channel identity: %+v", detail.Channel)
	}

	// Anonymous view still counts but carries no caller flags.
	detail, err = f.svc.Get(ctx, nil, v.ID)
	if err != nil {
		t.Fatalf("anonymous get failed: %v", err)
	}
	if detail.Views != 7 {
		t.Fatalf("expected views bumped to 7, got %d", detail.Views)
	}
	if detail.LikedByMe || detail.Channel.IsSubscribed {
		t.Fatal("anonymous get must not carry caller flags")
	}
}

func TestGet_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Get(ctx, nil, "not-a-video-id"); !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected validation for malformed id, got %v", err)
	}
	if _, err := f.svc.Get(ctx, nil, videoID(99)); !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecommend_PadsToLimitWithoutDuplicates(t *testing.T) {
	f := newFixture()
	base := time.Now()
	source := f.addVideo(videoID(0), "user_owner", []string{"go", "tutorial"}, 0, base)

	// Three tag-overlap matches, plus popular unrelated videos for padding.
	for i := 1; i <= 3; i++ {
		f.addVideo(videoID(i), "user_owner", []string{"go"}, 0, base.Add(time.Duration(i)*time.Minute))
	}
	for i := 4; i <= 12; i++ {
		f.addVideo(videoID(i), "user_owner", []string{"cats"}, int64(100-i), base.Add(time.Duration(i)*time.Minute))
	}
	ctx := context.Background()

	items, err := f.svc.Recommend(ctx, nil, source.ID)
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if len(items) != 8 {
		t.Fatalf("expected 8 recommendations, got %d", len(items))
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == source.ID {
			t.Fatal("source video must not be recommended")
		}
		if seen[item.ID] {
			t.Fatalf("duplicate recommendation %s", item.ID)
		}
		seen[item.ID] = true
	}
	// Tag-overlap matches come first, newest first.
	for i, want := range []string{videoID(3), videoID(2), videoID(1)} {
		if items[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, items[i].ID)
		}
	}
}

func TestRecommend_FewerThanLimit(t *testing.T) {
	f := newFixture()
	base := time.Now()
	source := f.addVideo(videoID(0), "user_owner", nil, 0, base)
	f.addVideo(videoID(1), "user_owner", nil, 0, base.Add(time.Minute))
	ctx := context.Background()

	items, err := f.svc.Recommend(ctx, nil, source.ID)
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(items))
	}
}

func TestLike_IdempotentWithFreshCount(t *testing.T) {
	f := newFixture()
	viewer := f.addUser("user_viewer", "viewer")
	v := f.addVideo(videoID(1), "user_owner", nil, 0, time.Now())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		status, err := f.svc.Like(ctx, viewer, v.ID)
		if err != nil {
			t.Fatalf("like failed: %v", err)
		}
		if status.LikesCount != 1 || !status.LikedByMe {
			t.Fatalf("attempt %d: expected count 1 likedByMe, got %+v", i, status)
		}
	}

	for i := 0; i < 2; i++ {
		status, err := f.svc.Unlike(ctx, viewer, v.ID)
		if err != nil {
			t.Fatalf("unlike failed: %v", err)
		}
		if status.LikesCount != 0 || status.LikedByMe {
			t.Fatalf("attempt %d: expected count 0, got %+v", i, status)
		}
	}
}

func TestLike_MissingVideo(t *testing.T) {
	f := newFixture()
	viewer := f.addUser("user_viewer", "viewer")

	_, err := f.svc.Like(context.Background(), viewer, videoID(404))
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecordWatch_UpsertsTimestamp(t *testing.T) {
	f := newFixture()
	viewer := f.addUser("user_viewer", "viewer")
	v := f.addVideo(videoID(1), "user_owner", nil, 0, time.Now())
	ctx := context.Background()

	if err := f.svc.RecordWatch(ctx, viewer, v.ID); err != nil {
		t.Fatalf("record watch failed: %v", err)
	}
	first := f.history.rows[edge{viewer.ID, v.ID}].watchedAt

	time.Sleep(5 * time.Millisecond)
	if err := f.svc.RecordWatch(ctx, viewer, v.ID); err != nil {
		t.Fatalf("second record watch failed: %v", err)
	}
	if len(f.history.rows) != 1 {
		t.Fatalf("expected a single history row, got %d", len(f.history.rows))
	}
	if !f.history.rows[edge{viewer.ID, v.ID}].watchedAt.After(first) {
		t.Fatal("expected watchedAt refreshed on rewatch")
	}

	entries, err := f.svc.MyHistory(ctx, viewer)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Video.ID != v.ID {
		t.Fatalf("unexpected history entries: %+v", entries)
	}
}

func TestRecordWatch_MissingVideo(t *testing.T) {
	f := newFixture()
	viewer := f.addUser("user_viewer", "viewer")

	err := f.svc.RecordWatch(context.Background(), viewer, videoID(404))
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpload_StoresAssetsAndCreatesRecord(t *testing.T) {
	f := newFixture()
	uploader := f.addUser("user_up", "uploader")
	ctx := context.Background()

	created, err := f.svc.Upload(ctx, uploader, video.UploadInput{
		Title:     "  My Video  ",
		Tags:      []string{"Go", "go", " tutorial "},
		Video:     &video.Asset{Filename: "clip.mp4", Data: mp4Header()},
		Thumbnail: &video.Asset{Filename: "thumb.png", Data: pngHeader()},
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if created.Title != "My Video" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if len(created.Tags) != 2 {
		t.Fatalf("expected deduplicated lowercased tags, got %v", created.Tags)
	}
	if created.VideoURL == "" || created.ThumbnailURL == "" {
		t.Fatal("expected stored asset URLs on the record")
	}
	if len(f.storage.objects) != 2 {
		t.Fatalf("expected 2 stored objects, got %d", len(f.storage.objects))
	}
	if _, ok := f.videos.videos[created.ID]; !ok {
		t.Fatal("expected catalog record created")
	}
	if created.Owner.Username != "uploader" {
		t.Fatalf("expected owner summary, got %+v", created.Owner)
	}
}

func TestUpload_Validation(t *testing.T) {
	f := newFixture()
	uploader := f.addUser("user_up", "uploader")
	ctx := context.Background()

	cases := []struct {
		name  string
		input video.UploadInput
	}{
		{"missing title", video.UploadInput{
			Video:     &video.Asset{Filename: "clip.mp4", Data: mp4Header()},
			Thumbnail: &video.Asset{Filename: "thumb.png", Data: pngHeader()},
		}},
		{"missing video", video.UploadInput{
			Title:     "ok",
			Thumbnail: &video.Asset{Filename: "thumb.png", Data: pngHeader()},
		}},
		{"missing thumbnail", video.UploadInput{
			Title: "ok",
			Video: &video.Asset{Filename: "clip.mp4", Data: mp4Header()},
		}},
		{"thumbnail is not an image", video.UploadInput{
			Title:     "ok",
			Video:     &video.Asset{Filename: "clip.mp4", Data: mp4Header()},
			Thumbnail: &video.Asset{Filename: "thumb.png", Data: mp4Header()},
		}},
		{"video is not a video", video.UploadInput{
			Title:     "ok",
			Video:     &video.Asset{Filename: "clip.mp4", Data: pngHeader()},
			Thumbnail: &video.Asset{Filename: "thumb.png", Data: pngHeader()},
		}},
		{"title too long", video.UploadInput{
			Title:     strings.Repeat("x", 121),
			Video:     &video.Asset{Filename: "clip.mp4", Data: mp4Header()},
			Thumbnail: &video.Asset{Filename: "thumb.png", Data: pngHeader()},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Upload(ctx, uploader, tc.input)
			if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(f.storage.objects) != 0 {
		t.Fatalf("rejected uploads must not store assets, found %d", len(f.storage.objects))
	}
	if len(f.videos.videos) != 0 {
		t.Fatalf("rejected uploads must not create records, found %d", len(f.videos.videos))
	}
}

func TestEdit_OwnerOnly(t *testing.T) {
	f := newFixture()
	owner := f.addUser("user_owner", "creator")
	stranger := f.addUser("user_other", "other")
	v := f.addVideo(videoID(1), owner.ID, nil, 0, time.Now())
	ctx := context.Background()

	title := "renamed"
	if _, err := f.svc.Edit(ctx, stranger, v.ID, video.EditInput{Title: &title}); !platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	updated, err := f.svc.Edit(ctx, owner, v.ID, video.EditInput{Title: &title})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if updated.Title != "renamed" {
		t.Fatalf("expected renamed title, got %q", updated.Title)
	}
}

func TestEdit_ReplacesAssetAndDeletesOld(t *testing.T) {
	f := newFixture()
	owner := f.addUser("user_owner", "creator")
	v := f.addVideo(videoID(1), owner.ID, nil, 0, time.Now())
	oldThumb := v.ThumbnailURL
	ctx := context.Background()

	updated, err := f.svc.Edit(ctx, owner, v.ID, video.EditInput{
		Thumbnail: &video.Asset{Filename: "new.png", Data: pngHeader()},
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if updated.ThumbnailURL == oldThumb {
		t.Fatal("expected a fresh thumbnail URL")
	}
	found := false
	for _, deleted := range f.storage.deleted {
		if deleted == oldThumb {
			found = true
		}
	}
	if !found {
		t.Fatal("expected old thumbnail deleted")
	}
}

func TestDelete_CascadesEdgesAndAssets(t *testing.T) {
	f := newFixture()
	owner := f.addUser("user_owner", "creator")
	stranger := f.addUser("user_other", "other")
	viewer := f.addUser("user_viewer", "viewer")
	v := f.addVideo(videoID(1), owner.ID, nil, 0, time.Now())
	ctx := context.Background()

	f.likes.Add(ctx, viewer.ID, v.ID)
	f.history.Upsert(ctx, viewer.ID, v.ID, time.Now())

	if err := f.svc.Delete(ctx, stranger, v.ID); !platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	if err := f.svc.Delete(ctx, owner, v.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := f.videos.videos[v.ID]; ok {
		t.Fatal("expected record removed")
	}
	if len(f.likes.edges) != 0 {
		t.Fatal("expected like edges removed")
	}
	if len(f.history.rows) != 0 {
		t.Fatal("expected history edges removed")
	}
	if len(f.storage.deleted) != 2 {
		t.Fatalf("expected both assets deleted, got %d", len(f.storage.deleted))
	}

	if err := f.svc.Delete(ctx, owner, v.ID); !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestShareURL(t *testing.T) {
	f := newFixture()
	v := f.addVideo(videoID(1), "user_owner", nil, 0, time.Now())
	ctx := context.Background()

	url, err := f.svc.ShareURL(ctx, v.ID)
	if err != nil {
		t.Fatalf("share failed: %v", err)
	}
	want := "http://localhost:8080/watch/" + v.ID
	if url != want {
		t.Fatalf("expected %q, got %q", want, url)
	}

	if _, err := f.svc.ShareURL(ctx, videoID(404)); !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
