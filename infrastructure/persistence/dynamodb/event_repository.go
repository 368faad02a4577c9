package dynamodb

import (
	"context"
	"fmt"
	"time"

	"cosmic-backend/application/ports"
	"cosmic-backend/domain/core/entities"
	"cosmic-backend/domain/core/specifications"
	"cosmic-backend/domain/core/valueobjects"
	pkgerrors "cosmic-backend/pkg/errors"
	"cosmic-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	entityTypeEvent = "EVENT"
	searchPrefix    = "search_"
)

// API is the subset of the DynamoDB client the repository uses
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// EventRepository implements ports.EventRepository using DynamoDB
type EventRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(client API, tableName string, logger *zap.Logger) *EventRepository {
	return &EventRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.EventRepository = (*EventRepository)(nil)

// eventItem represents the DynamoDB item structure for an event
type eventItem struct {
	PK            string   `dynamodbav:"PK"`
	EntityType    string   `dynamodbav:"EntityType"`
	EventID       string   `dynamodbav:"EventID"`
	EventPurpose  string   `dynamodbav:"EventPurpose"`
	Guests        string   `dynamodbav:"Guests"`
	Date          string   `dynamodbav:"Date"`
	Budget        string   `dynamodbav:"Budget"`
	Theme         string   `dynamodbav:"Theme,omitempty"`
	Venue         string   `dynamodbav:"Venue,omitempty"`
	FoodBeverage  string   `dynamodbav:"FoodBeverage,omitempty"`
	Entertainment []string `dynamodbav:"Entertainment"`
	Decorations   string   `dynamodbav:"Decorations,omitempty"`
	CreatedAt     string   `dynamodbav:"CreatedAt"`
}

func newEventItem(record *entities.EventRecord, createdAt time.Time) eventItem {
	entertainment := record.Entertainment
	if entertainment == nil {
		entertainment = []string{}
	}
	return eventItem{
		PK:            fmt.Sprintf("EVENT#%s", record.ID),
		EntityType:    entityTypeEvent,
		EventID:       record.ID,
		EventPurpose:  record.EventPurpose,
		Guests:        record.Guests,
		Date:          record.Date,
		Budget:        record.Budget,
		Theme:         record.Theme,
		Venue:         record.Venue,
		FoodBeverage:  record.FoodBeverage,
		Entertainment: entertainment,
		Decorations:   record.Decorations,
		CreatedAt:     createdAt.Format(time.RFC3339),
	}
}

func (i eventItem) toRecord() *entities.EventRecord {
	record := &entities.EventRecord{
		ID:            i.EventID,
		EventPurpose:  i.EventPurpose,
		Guests:        i.Guests,
		Date:          i.Date,
		Budget:        i.Budget,
		Theme:         i.Theme,
		Venue:         i.Venue,
		FoodBeverage:  i.FoodBeverage,
		Entertainment: i.Entertainment,
		Decorations:   i.Decorations,
	}
	record.Normalize()
	return record
}

// Insert persists an event under a newly generated ID
func (r *EventRepository) Insert(ctx context.Context, record *entities.EventRecord) (*entities.EventRecord, error) {
	if err := utils.ValidateStruct(record); err != nil {
		return nil, pkgerrors.NewStorageWriteError(r.tableName, err)
	}

	stored := *record
	stored.ID = valueobjects.NewEventID().String()
	stored.Normalize()

	av, err := attributevalue.MarshalMap(newEventItem(&stored, time.Now().UTC()))
	if err != nil {
		return nil, pkgerrors.NewStorageWriteError(r.tableName, fmt.Errorf("failed to marshal event: %w", err))
	}

	// Lower-cased shadow attributes back case-insensitive substring search
	for _, field := range entities.EventSearchableFields {
		av[searchPrefix+field] = &types.AttributeValueMemberS{Value: stored.SearchText(field)}
	}

	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("PK").AttributeNotExists()).
		Build()
	if err != nil {
		return nil, pkgerrors.NewStorageWriteError(r.tableName, fmt.Errorf("failed to build condition: %w", err))
	}

	input := &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save event to DynamoDB",
			zap.Error(err),
			zap.String("eventID", stored.ID),
		)
		return nil, pkgerrors.NewStorageWriteError(r.tableName, err)
	}

	r.logger.Info("Successfully saved event to DynamoDB",
		zap.String("eventID", stored.ID),
		zap.String("table", r.tableName),
	)

	return &stored, nil
}

// Find scans the table for events matching every filter condition
func (r *EventRepository) Find(ctx context.Context, filter specifications.EventFilter) ([]*entities.EventRecord, error) {
	if filter.HasUnknownField() {
		return []*entities.EventRecord{}, nil
	}

	expr, err := buildFilterExpression(filter)
	if err != nil {
		return nil, pkgerrors.NewStorageReadError(r.tableName, fmt.Errorf("failed to build filter: %w", err))
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	records := make([]*entities.EventRecord, 0)
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.logger.Error("Failed to scan events",
				zap.Error(err),
				zap.String("table", r.tableName),
			)
			return nil, pkgerrors.NewStorageReadError(r.tableName, err)
		}

		var items []eventItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, pkgerrors.NewStorageReadError(r.tableName, fmt.Errorf("failed to unmarshal events: %w", err))
		}
		for _, item := range items {
			records = append(records, item.toRecord())
		}
	}

	r.logger.Debug("Scanned events",
		zap.Int("conditions", len(filter.Conditions())),
		zap.Int("matches", len(records)),
	)

	return records, nil
}

// Ping verifies the table is reachable
func (r *EventRepository) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return pkgerrors.NewUnavailableError(r.tableName, err)
	}
	return nil
}

// buildFilterExpression ANDs one contains() term per condition onto the
// entity-type guard. Values travel as expression attribute values, never as
// part of the expression text.
func buildFilterExpression(filter specifications.EventFilter) (expression.Expression, error) {
	condition := expression.Name("EntityType").Equal(expression.Value(entityTypeEvent))
	for _, c := range filter.Conditions() {
		condition = condition.And(expression.Name(searchPrefix + c.Field).Contains(c.Needle))
	}
	return expression.NewBuilder().WithFilter(condition).Build()
}
