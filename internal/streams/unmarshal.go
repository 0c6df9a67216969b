package streams

import (
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var errNilImage = errors.New("stream record has no image")

// toAttributeValue converts a stream event attribute into the SDK's attribute
// type so attributevalue can decode it.
func toAttributeValue(v events.DynamoDBAttributeValue) (dynamodbtypes.AttributeValue, error) {
	switch v.DataType() {
	case events.DataTypeString:
		return &dynamodbtypes.AttributeValueMemberS{Value: v.String()}, nil
	case events.DataTypeNumber:
		return &dynamodbtypes.AttributeValueMemberN{Value: v.Number()}, nil
	case events.DataTypeBinary:
		return &dynamodbtypes.AttributeValueMemberB{Value: v.Binary()}, nil
	case events.DataTypeBoolean:
		return &dynamodbtypes.AttributeValueMemberBOOL{Value: v.Boolean()}, nil
	case events.DataTypeNull:
		return &dynamodbtypes.AttributeValueMemberNULL{Value: true}, nil
	case events.DataTypeStringSet:
		return &dynamodbtypes.AttributeValueMemberSS{Value: v.StringSet()}, nil
	case events.DataTypeNumberSet:
		return &dynamodbtypes.AttributeValueMemberNS{Value: v.NumberSet()}, nil
	case events.DataTypeBinarySet:
		return &dynamodbtypes.AttributeValueMemberBS{Value: v.BinarySet()}, nil
	case events.DataTypeMap:
		m, err := toItem(v.Map())
		if err != nil {
			return nil, err
		}
		return &dynamodbtypes.AttributeValueMemberM{Value: m}, nil
	case events.DataTypeList:
		list := make([]dynamodbtypes.AttributeValue, 0, len(v.List()))
		for i, item := range v.List() {
			converted, err := toAttributeValue(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list = append(list, converted)
		}
		return &dynamodbtypes.AttributeValueMemberL{Value: list}, nil
	default:
		return nil, fmt.Errorf("unsupported attribute type: %v", v.DataType())
	}
}

func toItem(image map[string]events.DynamoDBAttributeValue) (map[string]dynamodbtypes.AttributeValue, error) {
	item := make(map[string]dynamodbtypes.AttributeValue, len(image))
	for k, v := range image {
		converted, err := toAttributeValue(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
		item[k] = converted
	}
	return item, nil
}

// UnmarshalStreamImage decodes a NewImage or OldImage into out using the
// same dynamodbav tags the archive writes with.
func UnmarshalStreamImage[T any](image map[string]events.DynamoDBAttributeValue, out *T) error {
	if image == nil {
		return errNilImage
	}
	item, err := toItem(image)
	if err != nil {
		return fmt.Errorf("convert stream image: %w", err)
	}
	return attributevalue.UnmarshalMap(item, out)
}
