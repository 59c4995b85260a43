package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/entities"
	domainerrors "nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Privilege bits of the users.priv column that grant lifecycle
// authorities. Nominators may vote; NAT members hold every authority.
const (
	privNominator int64 = 1 << 13
	privNAT       int64 = 1 << 14
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetSet(ctx context.Context, setID int64) (entities.BeatmapSet, error) {
	var rows []mapModel
	err := r.db.WithContext(ctx).
		Where("set_id = ?", setID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return entities.BeatmapSet{}, r.storeError("ranking_repo_get_set_failed", err, "set_id", setID)
	}
	if len(rows) == 0 {
		return entities.BeatmapSet{}, domainerrors.ErrSetNotFound
	}
	return setFromRows(rows), nil
}

func (r *Repository) GetSetByMD5(ctx context.Context, md5 string) (entities.BeatmapSet, error) {
	var row mapModel
	err := r.db.WithContext(ctx).
		Where("md5 = ?", md5).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.BeatmapSet{}, domainerrors.ErrBeatmapNotFound
		}
		return entities.BeatmapSet{}, r.storeError("ranking_repo_get_by_md5_failed", err, "map_md5", md5)
	}
	return r.GetSet(ctx, row.SetID)
}

func (r *Repository) UpdateSetStatus(ctx context.Context, setID int64, status entities.Status, frozen bool, changedAt time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&mapModel{}).
			Where("set_id = ?", setID).
			Updates(map[string]any{
				"status":      int(status),
				"frozen":      frozen,
				"change_date": changedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrSetNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrSetNotFound) {
			return err
		}
		return r.storeError("ranking_repo_update_status_failed", err,
			"set_id", setID,
			"target_status", status.String(),
		)
	}
	return nil
}

func (r *Repository) ListQualifiedBefore(ctx context.Context, cutoff time.Time) ([]int64, error) {
	var setIDs []int64
	err := r.db.WithContext(ctx).Model(&mapModel{}).
		Where("status = ? AND change_date < ?", int(entities.StatusQualified), cutoff).
		Pluck("set_id", &setIDs).Error
	if err != nil {
		return nil, r.storeError("ranking_repo_list_qualified_failed", err)
	}
	return setIDs, nil
}

func (r *Repository) PurgeScores(ctx context.Context, mapMD5 string) error {
	err := r.db.WithContext(ctx).
		Where("map_md5 = ?", mapMD5).
		Delete(&scoreModel{}).Error
	if err != nil {
		return r.storeError("ranking_repo_purge_scores_failed", err, "map_md5", mapMD5)
	}
	return nil
}

func (r *Repository) CancelMapRequests(ctx context.Context, mapID int64) error {
	err := r.db.WithContext(ctx).
		Where("map_id = ?", mapID).
		Delete(&mapRequestModel{}).Error
	if err != nil {
		return r.storeError("ranking_repo_cancel_requests_failed", err, "map_id", mapID)
	}
	return nil
}

func (r *Repository) ResolveActor(ctx context.Context, userID int64) (entities.Actor, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Actor{}, domainerrors.ErrUnauthorized
		}
		return entities.Actor{}, r.storeError("ranking_repo_resolve_actor_failed", err, "user_id", userID)
	}

	var authorities entities.Authority
	if row.Priv&privNominator != 0 {
		authorities |= entities.AuthorityNominate
	}
	if row.Priv&privNAT != 0 {
		authorities |= entities.AuthorityNominate | entities.AuthorityLove |
			entities.AuthorityRank | entities.AuthorityCancel
	}
	return entities.Actor{UserID: row.ID, Name: row.Name, Authorities: authorities}, nil
}

func (r *Repository) storeError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "beatmap-moderation/ranking-lifecycle",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fields = append(fields, "pg_code", pgErr.Code)
	}
	r.logger.Error("postgres repository call failed", fields...)
	return fmt.Errorf("%w: %v", domainerrors.ErrStoreUnavailable, err)
}

func setFromRows(rows []mapModel) entities.BeatmapSet {
	head := rows[0]
	set := entities.BeatmapSet{
		SetID:            head.SetID,
		Artist:           head.Artist,
		Title:            head.Title,
		Creator:          head.Creator,
		Status:           entities.Status(head.Status),
		Frozen:           head.Frozen,
		LastStatusChange: head.ChangeDate,
		Maps:             make([]entities.Beatmap, 0, len(rows)),
	}
	for _, row := range rows {
		set.Maps = append(set.Maps, entities.Beatmap{
			MapID:   row.ID,
			SetID:   row.SetID,
			MD5:     row.MD5,
			Version: row.Version,
		})
	}
	return set
}
