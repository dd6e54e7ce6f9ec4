package hierarchy

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"go-knowledge-center/internal/models"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory Store for the package tests. The fail
// knobs make calls fail or report zero affected rows, so fail-closed
// validation, transaction rollback, and the affected-row checks can be
// observed. beforeTx runs once at the start of the next transaction,
// standing in for a concurrent write committed just before it.
type fakeStore struct {
	folders map[string]*models.Folder
	sources map[string]*models.Source
	clock   time.Time

	failAll           bool
	failDeleteFolder  bool
	updateAffectsNone bool
	deleteAffectsNone bool
	beforeTx          func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		folders: map[string]*models.Folder{},
		sources: map[string]*models.Source{},
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) addFolder(id, name string, parentID *string, position int) *models.Folder {
	now := f.tick()
	folder := &models.Folder{
		ID:        id,
		Name:      name,
		ParentID:  parentID,
		Position:  position,
		Metadata:  models.JSON{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.folders[id] = folder
	return folder
}

func (f *fakeStore) addSource(id string, folderID *string) *models.Source {
	source := &models.Source{
		SourceID:  id,
		FolderID:  folderID,
		Metadata:  models.JSON{},
		CreatedAt: f.tick(),
	}
	f.sources[id] = source
	return source
}

func (f *fakeStore) FolderByID(ctx context.Context, id string) (*models.Folder, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	folder, ok := f.folders[id]
	if !ok {
		return nil, nil
	}
	out := *folder
	return &out, nil
}

func (f *fakeStore) Folders(ctx context.Context) ([]models.Folder, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	folders := make([]models.Folder, 0, len(f.folders))
	for _, folder := range f.folders {
		folders = append(folders, *folder)
	}
	sortFolders(folders)
	return folders, nil
}

func (f *fakeStore) FoldersByParent(ctx context.Context, parentID *string) ([]models.Folder, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	folders := []models.Folder{}
	for _, folder := range f.folders {
		switch {
		case parentID == nil && folder.ParentID == nil:
			folders = append(folders, *folder)
		case parentID != nil && folder.ParentID != nil && *folder.ParentID == *parentID:
			folders = append(folders, *folder)
		}
	}
	sortFolders(folders)
	return folders, nil
}

func (f *fakeStore) InsertFolder(ctx context.Context, folder *models.Folder) error {
	if f.failAll {
		return errStoreDown
	}
	// Mirrors the gorm BeforeCreate hook.
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	if folder.Metadata == nil {
		folder.Metadata = models.JSON{}
	}
	now := f.tick()
	folder.CreatedAt = now
	folder.UpdatedAt = now
	out := *folder
	f.folders[folder.ID] = &out
	return nil
}

func (f *fakeStore) UpdateFolder(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	if f.failAll {
		return 0, errStoreDown
	}
	if f.updateAffectsNone {
		return 0, nil
	}
	folder, ok := f.folders[id]
	if !ok {
		return 0, nil
	}
	for key, value := range fields {
		switch key {
		case "name":
			folder.Name = value.(string)
		case "description":
			folder.Description = value.(string)
		case "color":
			folder.Color = value.(string)
		case "icon":
			folder.Icon = value.(string)
		case "position":
			folder.Position = value.(int)
		case "metadata":
			folder.Metadata = value.(models.JSON)
		case "parent_id":
			parentID := value.(string)
			folder.ParentID = &parentID
		}
	}
	folder.UpdatedAt = f.tick()
	return 1, nil
}

func (f *fakeStore) DeleteFolder(ctx context.Context, id string) (int64, error) {
	if f.failAll || f.failDeleteFolder {
		return 0, errStoreDown
	}
	if f.deleteAffectsNone {
		return 0, nil
	}
	if _, ok := f.folders[id]; !ok {
		return 0, nil
	}
	delete(f.folders, id)
	return 1, nil
}

func (f *fakeStore) SourcesByFolder(ctx context.Context, folderID string) ([]models.Source, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	sources := []models.Source{}
	for _, source := range f.sources {
		if source.FolderID != nil && *source.FolderID == folderID {
			sources = append(sources, *source)
		}
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].CreatedAt.After(sources[j].CreatedAt)
	})
	return sources, nil
}

func (f *fakeStore) SetSourceFolder(ctx context.Context, sourceID string, folderID *string) (int64, error) {
	if f.failAll {
		return 0, errStoreDown
	}
	source, ok := f.sources[sourceID]
	if !ok {
		return 0, nil
	}
	source.FolderID = folderID
	return 1, nil
}

func (f *fakeStore) ReassignSources(ctx context.Context, fromFolderID string, toFolderID *string) error {
	if f.failAll {
		return errStoreDown
	}
	for _, source := range f.sources {
		if source.FolderID != nil && *source.FolderID == fromFolderID {
			source.FolderID = toFolderID
		}
	}
	return nil
}

func (f *fakeStore) ReassignSubfolders(ctx context.Context, fromParentID string, toParentID *string) error {
	if f.failAll {
		return errStoreDown
	}
	for _, folder := range f.folders {
		if folder.ParentID != nil && *folder.ParentID == fromParentID {
			folder.ParentID = toParentID
		}
	}
	return nil
}

func (f *fakeStore) DeleteSourcesInFolder(ctx context.Context, folderID string) error {
	if f.failAll {
		return errStoreDown
	}
	for id, source := range f.sources {
		if source.FolderID != nil && *source.FolderID == folderID {
			delete(f.sources, id)
		}
	}
	return nil
}

func (f *fakeStore) SourceCount(ctx context.Context, folderID string) (int64, error) {
	if f.failAll {
		return 0, errStoreDown
	}
	var count int64
	for _, source := range f.sources {
		if source.FolderID != nil && *source.FolderID == folderID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) SourceCountsByFolder(ctx context.Context) (map[string]int64, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	counts := map[string]int64{}
	for _, source := range f.sources {
		if source.FolderID != nil {
			counts[*source.FolderID]++
		}
	}
	return counts, nil
}

func (f *fakeStore) SubfolderCount(ctx context.Context, folderID string) (int64, error) {
	if f.failAll {
		return 0, errStoreDown
	}
	var count int64
	for _, folder := range f.folders {
		if folder.ParentID != nil && *folder.ParentID == folderID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if f.failAll {
		return errStoreDown
	}
	if f.beforeTx != nil {
		f.beforeTx()
		f.beforeTx = nil
	}
	foldersSnap := make(map[string]*models.Folder, len(f.folders))
	for id, folder := range f.folders {
		out := *folder
		foldersSnap[id] = &out
	}
	sourcesSnap := make(map[string]*models.Source, len(f.sources))
	for id, source := range f.sources {
		out := *source
		sourcesSnap[id] = &out
	}

	if err := fn(f); err != nil {
		f.folders = foldersSnap
		f.sources = sourcesSnap
		return err
	}
	return nil
}

func sortFolders(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool {
		if folders[i].Position != folders[j].Position {
			return folders[i].Position < folders[j].Position
		}
		if folders[i].Name != folders[j].Name {
			return folders[i].Name < folders[j].Name
		}
		return folders[i].ID < folders[j].ID
	})
}

// recursiveFakeStore adds server-side-style helpers computed with an
// independent recursive algorithm, standing in for a backend with
// native hierarchy queries. Like that backend it reports
// ErrDepthExceeded when a chain or subtree runs past the bound.
// maxDepth zero selects DefaultMaxDepth.
type recursiveFakeStore struct {
	*fakeStore
	maxDepth int
}

func (f *recursiveFakeStore) bound() int {
	if f.maxDepth > 0 {
		return f.maxDepth
	}
	return DefaultMaxDepth
}

func (f *recursiveFakeStore) RecursiveSourceCount(ctx context.Context, folderID string) (int64, error) {
	if f.failAll {
		return 0, errStoreDown
	}
	children := map[string][]string{}
	for _, folder := range f.folders {
		if folder.ParentID != nil {
			children[*folder.ParentID] = append(children[*folder.ParentID], folder.ID)
		}
	}
	directCounts, err := f.SourceCountsByFolder(ctx)
	if err != nil {
		return 0, err
	}

	total := directCounts[folderID]
	level := children[folderID]
	for depth := 1; len(level) > 0; depth++ {
		if depth >= f.bound() {
			return 0, ErrDepthExceeded
		}
		next := []string{}
		for _, id := range level {
			total += directCounts[id]
			next = append(next, children[id]...)
		}
		level = next
	}
	return total, nil
}

func (f *recursiveFakeStore) FolderPath(ctx context.Context, folderID string) ([]string, error) {
	if f.failAll {
		return nil, errStoreDown
	}
	names := []string{}
	currentID := folderID
	for depth := 0; depth < f.bound(); depth++ {
		folder, ok := f.folders[currentID]
		if !ok {
			break
		}
		names = append([]string{folder.Name}, names...)
		if folder.ParentID == nil {
			break
		}
		currentID = *folder.ParentID
	}
	return names, nil
}

func (f *recursiveFakeStore) IsDescendant(ctx context.Context, folderID, ancestorID string) (bool, error) {
	if f.failAll {
		return false, errStoreDown
	}
	currentID := folderID
	for depth := 0; depth < f.bound(); depth++ {
		if currentID == ancestorID {
			return true, nil
		}
		folder, ok := f.folders[currentID]
		if !ok || folder.ParentID == nil {
			return false, nil
		}
		currentID = *folder.ParentID
	}
	return false, ErrDepthExceeded
}
