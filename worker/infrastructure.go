package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"telconova-dispatch/dal"
	"telconova-dispatch/infrastructure"
	"telconova-dispatch/utils/logger"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/cenkalti/backoff/v5"
)

const defaultBootstrapTries = 10

// TableBootstrapper creates missing DynamoDB tables from the embedded schema
// and waits until they are ACTIVE.
type TableBootstrapper struct {
	tables   dal.TableManagerInterface
	logger   logger.Logger
	maxTries uint
	backOff  func() backoff.BackOff
}

func NewTableBootstrapper(tables dal.TableManagerInterface, log logger.Logger) *TableBootstrapper {
	return &TableBootstrapper{
		tables:   tables,
		logger:   log,
		maxTries: defaultBootstrapTries,
		backOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 30 * time.Second
			return b
		},
	}
}

// EnsureTables makes sure every named table exists and is ACTIVE. It returns
// the tables confirmed before the first failure.
func (tb *TableBootstrapper) EnsureTables(ctx context.Context, tableNames []string) ([]string, error) {
	ready := make([]string, 0, len(tableNames))
	for _, name := range tableNames {
		if err := tb.ensureTable(ctx, name); err != nil {
			return ready, fmt.Errorf("table %s: %w", name, err)
		}
		ready = append(ready, name)
		tb.logger.Infof("Table %s is active", name)
	}
	return ready, nil
}

func (tb *TableBootstrapper) ensureTable(ctx context.Context, name string) error {
	input, err := infrastructure.GetTables(name)
	if err != nil {
		return err
	}

	created := false
	operation := func() (types.TableStatus, error) {
		out, err := tb.tables.DescribeTable(ctx, name)
		if err != nil {
			if !isTableNotFoundError(err) {
				tb.logger.Warnf("Describe table %s failed: %v", name, err)
				return "", err
			}
			if !created {
				tb.logger.Infof("Creating table %s", name)
				if err := tb.tables.CreateTable(ctx, input); err != nil && !isResourceInUseError(err) {
					return "", err
				}
				created = true
			}
			return "", fmt.Errorf("table %s not created yet", name)
		}
		if out == nil || out.Table == nil {
			return "", fmt.Errorf("table %s has no description", name)
		}
		status := out.Table.TableStatus
		if status != types.TableStatusActive {
			return status, fmt.Errorf("table %s is %s", name, status)
		}
		return status, nil
	}

	_, err = backoff.Retry(ctx, operation,
		backoff.WithBackOff(tb.backOff()),
		backoff.WithMaxTries(tb.maxTries),
	)
	return err
}

func isTableNotFoundError(err error) bool {
	return hasErrorCode(err, "ResourceNotFoundException")
}

func isResourceInUseError(err error) bool {
	return hasErrorCode(err, "ResourceInUseException")
}

func hasErrorCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == code
	}
	return strings.Contains(err.Error(), code)
}
