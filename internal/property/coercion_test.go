package property

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/solatis/ambrosia/internal/types"
)

func ptr[T any](v T) *T { return &v }

func TestCoerce(t *testing.T) {
	tests := []struct {
		name      string
		fieldType FieldType
		in        Input
		want      any
		wantErr   error
	}{
		{name: "text: trimmed", fieldType: FieldTypeText, in: Values(" a "), want: ptr("a")},
		{name: "text: no values", fieldType: FieldTypeText, in: Values(), want: (*string)(nil)},
		{name: "text: first slot only", fieldType: FieldTypeText, in: Values("x", "y"), want: ptr("x")},
		{name: "text list: empty is nil", fieldType: FieldTypeTextList, in: Values("  a ", "", "b"), want: []*string{ptr("a"), nil, ptr("b")}},
		{name: "bool: literal", fieldType: FieldTypeBool, in: Values("TRUE"), want: ptr(true)},
		{name: "bool: mixed case", fieldType: FieldTypeBool, in: Values("fAlSe"), want: ptr(false)},
		{name: "bool: checkbox on is not a literal", fieldType: FieldTypeBool, in: Values("on"), want: (*bool)(nil)},
		{name: "bool: digit is not a literal", fieldType: FieldTypeBool, in: Values("1"), want: (*bool)(nil)},
		{name: "bool list: literals only", fieldType: FieldTypeBoolList, in: Values("yes", "1", "on", "garbage", "TRUE"), want: []*bool{nil, nil, nil, nil, ptr(true)}},
		{name: "bool: garbage", fieldType: FieldTypeBool, in: Values("maybe"), want: (*bool)(nil)},
		{name: "bool list", fieldType: FieldTypeBoolList, in: Values("false", "x"), want: []*bool{ptr(false), nil}},
		{name: "int: parsed", fieldType: FieldTypeInt, in: Values(" -12 "), want: ptr(int32(-12))},
		{name: "int: overflow", fieldType: FieldTypeInt, in: Values("3000000000"), want: (*int32)(nil)},
		{name: "int list", fieldType: FieldTypeIntList, in: Values("1", "abc", "3"), want: []*int32{ptr(int32(1)), nil, ptr(int32(3))}},
		{name: "long", fieldType: FieldTypeLong, in: Values("3000000000"), want: ptr(int64(3000000000))},
		{name: "long list", fieldType: FieldTypeLongList, in: Values(""), want: []*int64{nil}},
		{name: "time", fieldType: FieldTypeTime, in: Values("2024-05-06T07:08"), want: ptr(time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC))},
		{name: "time: wrong layout", fieldType: FieldTypeTime, in: Values("06/05/2024"), want: (*time.Time)(nil)},
		{name: "time list", fieldType: FieldTypeTimeList, in: Values("2024-05-06T07:08", "x"), want: []*time.Time{ptr(time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC)), nil}},
		{name: "object refused", fieldType: FieldTypeObject, in: Values("x"), wantErr: types.ErrWriteRefused},
		{name: "unspecified refused", fieldType: FieldTypeUnspecified, in: Values("x"), wantErr: types.ErrWriteRefused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.fieldType, tt.in, "", nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Coerce() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Coerce() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoerce_UploadPassThrough(t *testing.T) {
	u := fakeUpload("scan.png")
	got, err := Coerce(FieldTypeUpload, Input{File: u}, "", nil)
	if err != nil {
		t.Fatalf("Coerce() error = %v", err)
	}
	if got != Upload(u) {
		t.Errorf("Coerce() = %v, want the same handle", got)
	}
}

func TestFieldType_String(t *testing.T) {
	if got := FieldTypeTextList.String(); got != "text[]" {
		t.Errorf("String() = %q", got)
	}
	if !FieldTypeIntList.IsList() || FieldTypeInt.IsList() {
		t.Error("IsList() misclassified int types")
	}
}
