package handler

import (
	"context"

	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	"google.golang.org/protobuf/types/known/structpb"
)

// CreateDepartment は部署を作成します。
func (h *SyncHandler) CreateDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.createDimension(ctx, dimension.KindDepartment, req)
}

// UpdateDepartment は部署名を変更します。
func (h *SyncHandler) UpdateDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.updateDimension(ctx, dimension.KindDepartment, req)
}

// DeleteDepartment は部署を削除します。
func (h *SyncHandler) DeleteDepartment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.deleteDimension(ctx, dimension.KindDepartment, req)
}

// ListDepartments は部署の一覧を返します。
func (h *SyncHandler) ListDepartments(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return h.listDimensions(ctx, dimension.KindDepartment)
}

// CreatePosition は役職を作成します。
func (h *SyncHandler) CreatePosition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.createDimension(ctx, dimension.KindPosition, req)
}

// UpdatePosition は役職名を変更します。
func (h *SyncHandler) UpdatePosition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.updateDimension(ctx, dimension.KindPosition, req)
}

// DeletePosition は役職を削除します。
func (h *SyncHandler) DeletePosition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return h.deleteDimension(ctx, dimension.KindPosition, req)
}

// ListPositions は役職の一覧を返します。
func (h *SyncHandler) ListPositions(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return h.listDimensions(ctx, dimension.KindPosition)
}

func (h *SyncHandler) createDimension(ctx context.Context, kind dimension.Kind, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := requiredString(req, "name")
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	created, err := h.dimensions.Create(ctx, dimension.CreateInput{Kind: kind, Name: name})
	if err != nil {
		return nil, h.statusError(ctx, err)
	}
	return toStruct(dimensionValue(created))
}

func (h *SyncHandler) updateDimension(ctx context.Context, kind dimension.Kind, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredID(req, "id")
	if err != nil {
		return nil, h.statusError(ctx, err)
	}
	name, err := requiredString(req, "name")
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	updated, warnings, err := h.dimensions.Update(ctx, dimension.UpdateInput{Kind: kind, ID: id, Name: name})
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	out := dimensionValue(updated)
	out["warnings"] = warningsValue(warnings)
	return toStruct(out)
}

func (h *SyncHandler) deleteDimension(ctx context.Context, kind dimension.Kind, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredID(req, "id")
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	if err := h.dimensions.Delete(ctx, dimension.DeleteInput{Kind: kind, ID: id}); err != nil {
		return nil, h.statusError(ctx, err)
	}
	return &structpb.Struct{}, nil
}

func (h *SyncHandler) listDimensions(ctx context.Context, kind dimension.Kind) (*structpb.Struct, error) {
	refs, err := h.dimensions.List(ctx, kind)
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	items := make([]any, 0, len(refs))
	for _, ref := range refs {
		items = append(items, dimensionValue(ref))
	}
	return toStruct(map[string]any{"items": items})
}
