package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestErrorWithDetails_MatchesSentinel(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := ErrConnection.WithDetails(cause)

	assert.True(t, errors.Is(err, ErrConnection))
	assert.True(t, errors.Is(err, cause), "lỗi gốc phải unwrap được")
	assert.False(t, errors.Is(err, ErrTargetWrite))
	assert.Equal(t, "database connection failed: dial tcp: refused", err.Error())
}

func TestErrorWrapped_StillMatches(t *testing.T) {
	err := fmt.Errorf("table %q: %w", "products", ErrSourceRead.WithDetails(errors.New("timeout")))
	assert.True(t, errors.Is(err, ErrSourceRead))
}

func TestConvertMongoError(t *testing.T) {
	assert.Nil(t, ConvertMongoError(nil))
	assert.True(t, errors.Is(ConvertMongoError(mongo.ErrNoDocuments), ErrNotFound))
	assert.True(t, errors.Is(ConvertMongoError(mongo.ErrClientDisconnected), ErrConnection))

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Index: 0, Code: 11000, Message: "E11000 duplicate key"}}}
	assert.True(t, errors.Is(ConvertMongoError(dup), ErrDuplicate))

	bulk := mongo.BulkWriteException{WriteErrors: []mongo.BulkWriteError{{WriteError: mongo.WriteError{Index: 1, Code: 121, Message: "validation"}}}}
	assert.True(t, errors.Is(ConvertMongoError(bulk), ErrTargetWrite))

	already := ErrAdminNotFound
	assert.Same(t, already, ConvertMongoError(already))

	other := ConvertMongoError(errors.New("boom"))
	var appErr *Error
	assert.True(t, errors.As(other, &appErr))
	assert.Equal(t, ErrCodeDatabase.Code, appErr.Code.Code)
}
