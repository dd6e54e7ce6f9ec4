package hierarchy

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-knowledge-center/internal/models"
)

// GormStore implements Store and RecursiveStore on a gorm database
// handle. The recursive helpers use Postgres WITH RECURSIVE queries;
// every CTE caps its depth so a corrupted parent chain cannot loop.
type GormStore struct {
	db       *gorm.DB
	maxDepth int
}

func NewGormStore(db *gorm.DB, maxDepth int) *GormStore {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &GormStore{db: db, maxDepth: maxDepth}
}

func (s *GormStore) FolderByID(ctx context.Context, id string) (*models.Folder, error) {
	var folder models.Folder
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *GormStore) Folders(ctx context.Context) ([]models.Folder, error) {
	var folders []models.Folder
	err := s.db.WithContext(ctx).
		Order("position").Order("name").
		Find(&folders).Error
	return folders, err
}

func (s *GormStore) FoldersByParent(ctx context.Context, parentID *string) ([]models.Folder, error) {
	query := s.db.WithContext(ctx).Model(&models.Folder{})
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var folders []models.Folder
	err := query.Order("position").Order("name").Find(&folders).Error
	return folders, err
}

func (s *GormStore) InsertFolder(ctx context.Context, folder *models.Folder) error {
	return s.db.WithContext(ctx).Create(folder).Error
}

func (s *GormStore) UpdateFolder(ctx context.Context, id string, fields map[string]interface{}) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Folder{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

func (s *GormStore) DeleteFolder(ctx context.Context, id string) (int64, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Folder{})
	return result.RowsAffected, result.Error
}

func (s *GormStore) SourcesByFolder(ctx context.Context, folderID string) ([]models.Source, error) {
	var sources []models.Source
	err := s.db.WithContext(ctx).
		Where("folder_id = ?", folderID).
		Order("created_at DESC").
		Find(&sources).Error
	return sources, err
}

func (s *GormStore) SetSourceFolder(ctx context.Context, sourceID string, folderID *string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Source{}).
		Where("source_id = ?", sourceID).
		Update("folder_id", folderID)
	return result.RowsAffected, result.Error
}

func (s *GormStore) ReassignSources(ctx context.Context, fromFolderID string, toFolderID *string) error {
	return s.db.WithContext(ctx).Model(&models.Source{}).
		Where("folder_id = ?", fromFolderID).
		Update("folder_id", toFolderID).Error
}

func (s *GormStore) ReassignSubfolders(ctx context.Context, fromParentID string, toParentID *string) error {
	return s.db.WithContext(ctx).Model(&models.Folder{}).
		Where("parent_id = ?", fromParentID).
		Update("parent_id", toParentID).Error
}

func (s *GormStore) DeleteSourcesInFolder(ctx context.Context, folderID string) error {
	return s.db.WithContext(ctx).Where("folder_id = ?", folderID).Delete(&models.Source{}).Error
}

func (s *GormStore) SourceCount(ctx context.Context, folderID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Source{}).
		Where("folder_id = ?", folderID).
		Count(&count).Error
	return count, err
}

func (s *GormStore) SourceCountsByFolder(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		FolderID string
		Count    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Source{}).
		Select("folder_id, COUNT(*) AS count").
		Where("folder_id IS NOT NULL").
		Group("folder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.FolderID] = row.Count
	}
	return counts, nil
}

func (s *GormStore) SubfolderCount(ctx context.Context, folderID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Folder{}).
		Where("parent_id = ?", folderID).
		Count(&count).Error
	return count, err
}

func (s *GormStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, maxDepth: s.maxDepth})
	})
}

// The recursive CTEs let the chain grow one row past the cap and check
// for that overflow row, so hitting the depth bound is distinguishable
// from a chain that simply ends. Results mirror walkTraverser exactly:
// rows at depth < maxDepth count, a row at depth == maxDepth means
// ErrDepthExceeded.

const recursiveSourceCountSQL = `
WITH RECURSIVE subtree AS (
    SELECT id, 0 AS depth FROM folders WHERE id = ?
    UNION ALL
    SELECT f.id, s.depth + 1 FROM folders f
    JOIN subtree s ON f.parent_id = s.id
    WHERE s.depth < ?
)
SELECT
    (SELECT COUNT(*) FROM sources WHERE folder_id IN (SELECT id FROM subtree WHERE depth < ?)) AS total,
    COUNT(*) FILTER (WHERE depth >= ?) > 0 AS truncated
FROM subtree`

func (s *GormStore) RecursiveSourceCount(ctx context.Context, folderID string) (int64, error) {
	var row struct {
		Total     int64
		Truncated bool
	}
	err := s.db.WithContext(ctx).
		Raw(recursiveSourceCountSQL, folderID, s.maxDepth, s.maxDepth, s.maxDepth).
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	if row.Truncated {
		return 0, ErrDepthExceeded
	}
	return row.Total, nil
}

const folderPathSQL = `
WITH RECURSIVE chain AS (
    SELECT id, parent_id, name, 0 AS depth FROM folders WHERE id = ?
    UNION ALL
    SELECT f.id, f.parent_id, f.name, c.depth + 1 FROM folders f
    JOIN chain c ON f.id = c.parent_id
    WHERE c.depth + 1 < ?
)
SELECT name FROM chain ORDER BY depth DESC`

// FolderPath returns at most maxDepth names; a chain cut short by the
// bound yields the partial path without an error, like the walk does.
func (s *GormStore) FolderPath(ctx context.Context, folderID string) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Raw(folderPathSQL, folderID, s.maxDepth).Scan(&names).Error
	return names, err
}

const isDescendantSQL = `
WITH RECURSIVE chain AS (
    SELECT id, parent_id, 0 AS depth FROM folders WHERE id = ?
    UNION ALL
    SELECT f.id, f.parent_id, c.depth + 1 FROM folders f
    JOIN chain c ON f.id = c.parent_id
    WHERE c.depth < ?
)
SELECT
    COUNT(*) FILTER (WHERE id = ? AND depth < ?) > 0 AS found,
    COUNT(*) FILTER (WHERE depth >= ?) > 0 AS truncated
FROM chain`

func (s *GormStore) IsDescendant(ctx context.Context, folderID, ancestorID string) (bool, error) {
	var row struct {
		Found     bool
		Truncated bool
	}
	err := s.db.WithContext(ctx).
		Raw(isDescendantSQL, folderID, s.maxDepth, ancestorID, s.maxDepth, s.maxDepth).
		Scan(&row).Error
	if err != nil {
		return false, err
	}
	if row.Found {
		return true, nil
	}
	if row.Truncated {
		return false, ErrDepthExceeded
	}
	return false, nil
}
