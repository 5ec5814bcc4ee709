/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
	storeerrors "github.com/suparena/jsonrepeater/errors"
	"github.com/suparena/jsonrepeater/storagemodels"
)

// API is the subset of the DynamoDB client used by RecordStore.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

// DefaultIndexMap keys records by module and id.
var DefaultIndexMap = map[string]string{
	"PK": "MODULE#{module}",
	"SK": "RECORD#{id}",
}

// Options configures the DynamoDB client.
type Options struct {
	Region    string
	Table     string
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, for DynamoDB Local.
	Endpoint string
	IndexMap map[string]string
	Logger   *log.Logger
}

// RecordStore implements datastore.DataStore[storagemodels.Record] on DynamoDB.
type RecordStore struct {
	client    API
	tableName string
	module    string
	indexMap  map[string]string
}

// item is the stored shape of a Record.
type item struct {
	ID        string `dynamodbav:"id"`
	Module    string `dynamodbav:"module"`
	Fields    string `dynamodbav:"fields"`
	CreatedAt string `dynamodbav:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

func expandMacros(indexMap map[string]string, keysInput any) (map[string]string, error) {
	av, err := attributevalue.MarshalMap(keysInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))
	for fieldName, template := range indexMap {
		res[fieldName] = macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")

			switch tv := av[key].(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				return ""
			}
		})
	}
	return res, nil
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used
// when both keys are set, the default credential chain otherwise.
func NewDynamoDBClient(ctx context.Context, opts Options) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	if opts.Logger != nil {
		opts.Logger.Printf("DynamoDB client initialized for table: %s in region: %s", opts.Table, opts.Region)
	}
	return client, nil
}

// NewRecordStore connects to DynamoDB and returns a store for module's records.
func NewRecordStore(ctx context.Context, opts Options, module string) (*RecordStore, error) {
	client, err := NewDynamoDBClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return NewRecordStoreWithClient(client, opts.Table, module, opts.IndexMap)
}

// NewRecordStoreWithClient builds a store around an existing client. A nil
// indexMap means DefaultIndexMap.
func NewRecordStoreWithClient(client API, table, module string, indexMap map[string]string) (*RecordStore, error) {
	if table == "" {
		return nil, storeerrors.NewValidationError("table", "table name must not be empty")
	}
	if module == "" {
		return nil, storeerrors.NewValidationError("module", "module name must not be empty")
	}
	if indexMap == nil {
		indexMap = DefaultIndexMap
	}
	if _, ok := indexMap["PK"]; !ok {
		return nil, storeerrors.NewValidationError("indexMap", "PK template is required")
	}
	if _, ok := indexMap["SK"]; !ok {
		return nil, storeerrors.NewValidationError("indexMap", "SK template is required")
	}
	return &RecordStore{
		client:    client,
		tableName: table,
		module:    module,
		indexMap:  indexMap,
	}, nil
}

// GetOne retrieves the record with the given id.
func (d *RecordStore) GetOne(ctx context.Context, key string) (*storagemodels.Record, error) {
	keyMap, err := d.keyFor(key)
	if err != nil {
		return nil, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       keyMap,
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, storeerrors.NewNotFoundError("Record", key)
	}

	return fromAttributes(out.Item)
}

// Put stores the record, replacing any previous version.
func (d *RecordStore) Put(ctx context.Context, rec storagemodels.Record) error {
	if rec.ID == "" {
		return storeerrors.NewValidationError("id", "record id must not be empty")
	}
	if rec.Module == "" {
		rec.Module = d.module
	}
	if rec.Module != d.module {
		return storeerrors.NewValidationError("module", fmt.Sprintf("record belongs to %q, store serves %q", rec.Module, d.module))
	}

	it, err := toItem(rec)
	if err != nil {
		return err
	}
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	expanded, err := expandMacros(d.indexMap, it)
	if err != nil {
		return err
	}
	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// List returns every record of the store's module, following pagination.
func (d *RecordStore) List(ctx context.Context) ([]storagemodels.Record, error) {
	expanded, err := expandMacros(d.indexMap, item{Module: d.module})
	if err != nil {
		return nil, err
	}
	keyCond := "PK = :pkVal"
	paginator := sdk.NewQueryPaginator(d.client, &sdk.QueryInput{
		TableName:              &d.tableName,
		KeyConditionExpression: &keyCond,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pkVal": &types.AttributeValueMemberS{Value: expanded["PK"]},
		},
	})

	var records []storagemodels.Record
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query error: %w", err)
		}
		for _, raw := range page.Items {
			rec, err := fromAttributes(raw)
			if err != nil {
				return nil, err
			}
			records = append(records, *rec)
		}
	}
	return records, nil
}

// Delete removes the record with the given id.
func (d *RecordStore) Delete(ctx context.Context, key string) error {
	keyMap, err := d.keyFor(key)
	if err != nil {
		return err
	}

	cond := "attribute_exists(PK)"
	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:           &d.tableName,
		Key:                 keyMap,
		ConditionExpression: &cond,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return fmt.Errorf("delete %q: %w", key, storeerrors.NewNotFoundError("Record", key))
		}
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

func (d *RecordStore) keyFor(id string) (map[string]types.AttributeValue, error) {
	if id == "" {
		return nil, storeerrors.NewValidationError("id", "record id must not be empty")
	}
	expanded, err := expandMacros(d.indexMap, item{ID: id, Module: d.module})
	if err != nil {
		return nil, err
	}
	return buildKeyFromExpanded(expanded)
}

// buildKeyFromExpanded builds a DynamoDB key from the expanded index map.
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded["PK"]
	sk, okSK := expanded["SK"]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}

	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}, nil
}

func toItem(rec storagemodels.Record) (item, error) {
	fields := rec.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return item{}, fmt.Errorf("failed to encode fields of record %q: %w", rec.ID, err)
	}
	return item{
		ID:        rec.ID,
		Module:    rec.Module,
		Fields:    string(raw),
		CreatedAt: rec.CreatedAt.String(),
		UpdatedAt: rec.UpdatedAt.String(),
	}, nil
}

func fromAttributes(av map[string]types.AttributeValue) (*storagemodels.Record, error) {
	var it item
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	rec := &storagemodels.Record{
		ID:     it.ID,
		Module: it.Module,
		Fields: map[string]any{},
	}
	if it.Fields != "" {
		if err := json.Unmarshal([]byte(it.Fields), &rec.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode fields of record %q: %w", it.ID, err)
		}
	}
	var err error
	if rec.CreatedAt, err = parseDateTime(it.CreatedAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseDateTime(it.UpdatedAt); err != nil {
		return nil, err
	}
	return rec, nil
}

func parseDateTime(s string) (strfmt.DateTime, error) {
	if s == "" {
		return strfmt.DateTime{}, nil
	}
	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return strfmt.DateTime{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return dt, nil
}
