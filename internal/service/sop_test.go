package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/lubetrack/internal/domain"
)

func TestSOPCategoriesAndDocuments(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	cat, err := f.SOP.CreateCategory(ctx, CategoryInput{Name: "Motors", Description: "Motor bearings"})
	require.NoError(t, err)

	doc, err := f.SOP.CreateDocument(ctx, cat.ID, DocumentInput{Title: "Greasing", Content: "1. Lock out"})
	require.NoError(t, err)
	assert.Equal(t, cat.ID, doc.CategoryID)
	assert.Equal(t, "2024-03-10", doc.UpdatedAt.String())

	f.clock.Advance(48 * time.Hour)
	updated, err := f.SOP.UpdateDocument(ctx, doc.ID, DocumentInput{Title: "Greasing v2", Content: "1. Lock out\n2. Clean"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-12", updated.UpdatedAt.String())
	assert.Equal(t, cat.ID, updated.CategoryID)

	docs, err := f.SOP.Documents(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Greasing v2", docs[0].Title)

	renamed, err := f.SOP.UpdateCategory(ctx, cat.ID, CategoryInput{Name: "Electric Motors"})
	require.NoError(t, err)
	assert.Equal(t, "Electric Motors", renamed.Name)

	require.NoError(t, f.SOP.DeleteDocument(ctx, doc.ID))
	_, err = f.SOP.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestSOPDeleteCategoryHidesDocuments(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	cat, err := f.SOP.CreateCategory(ctx, CategoryInput{Name: "Pumps"})
	require.NoError(t, err)
	doc, err := f.SOP.CreateDocument(ctx, cat.ID, DocumentInput{Title: "Oil change"})
	require.NoError(t, err)

	require.NoError(t, f.SOP.DeleteCategory(ctx, cat.ID))

	_, err = f.SOP.Documents(ctx, cat.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	stored, err := f.SOP.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oil change", stored.Title)

	cats, err := f.SOP.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestSOPValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.SOP.CreateCategory(ctx, CategoryInput{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.SOP.CreateDocument(ctx, "missing", DocumentInput{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	cat, err := f.SOP.CreateCategory(ctx, CategoryInput{Name: "Safety"})
	require.NoError(t, err)
	_, err = f.SOP.CreateDocument(ctx, cat.ID, DocumentInput{Title: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.SOP.UpdateCategory(ctx, "missing", CategoryInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	_, err = f.SOP.UpdateDocument(ctx, "missing", DocumentInput{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.ErrorIs(t, f.SOP.DeleteCategory(ctx, "missing"), domain.ErrCategoryNotFound)
	assert.ErrorIs(t, f.SOP.DeleteDocument(ctx, "missing"), domain.ErrDocumentNotFound)
}
