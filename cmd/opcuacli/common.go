// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/edgeo-scada/uacore/pkg/ua"
)

// parseNodeID parses the standard "ns=<namespace>;i=<numeric>" / "ns=<n>;s=<string>"
// syntax accepted by every OPC UA tool; a bare "i=<numeric>" defaults to ns=0.
func parseNodeID(s string) (ua.NodeID, error) {
	var namespace uint64
	for _, part := range strings.Split(s, ";") {
		switch {
		case strings.HasPrefix(part, "ns="):
			n, err := strconv.ParseUint(strings.TrimPrefix(part, "ns="), 10, 16)
			if err != nil {
				return ua.NodeID{}, fmt.Errorf("invalid namespace in %q: %w", s, err)
			}
			namespace = n
		case strings.HasPrefix(part, "i="):
			id, err := strconv.ParseUint(strings.TrimPrefix(part, "i="), 10, 32)
			if err != nil {
				return ua.NodeID{}, fmt.Errorf("invalid numeric identifier in %q: %w", s, err)
			}
			return ua.NewNumericNodeID(uint16(namespace), uint32(id)), nil
		case strings.HasPrefix(part, "s="):
			return ua.NewStringNodeID(uint16(namespace), strings.TrimPrefix(part, "s=")), nil
		}
	}
	return ua.NodeID{}, fmt.Errorf("unrecognized node id syntax %q, expected ns=<n>;i=<id> or ns=<n>;s=<name>", s)
}

// parseAttributeID accepts the attribute names the read command's
// --attribute flag takes, defaulting to Value.
func parseAttributeID(name string) ua.AttributeID {
	switch strings.ToLower(name) {
	case "nodeid":
		return ua.AttributeNodeID
	case "nodeclass":
		return ua.AttributeNodeClass
	case "browsename":
		return ua.AttributeBrowseName
	case "displayname":
		return ua.AttributeDisplayName
	case "description":
		return ua.AttributeDescription
	case "datatype":
		return ua.AttributeDataType
	case "valuerank":
		return ua.AttributeValueRank
	case "accesslevel":
		return ua.AttributeAccessLevel
	default:
		return ua.AttributeValue
	}
}

func typeName(t ua.TypeID) string {
	switch t {
	case ua.TypeNull:
		return "Null"
	case ua.TypeBoolean:
		return "Boolean"
	case ua.TypeSByte:
		return "SByte"
	case ua.TypeByte:
		return "Byte"
	case ua.TypeInt16:
		return "Int16"
	case ua.TypeUInt16:
		return "UInt16"
	case ua.TypeInt32:
		return "Int32"
	case ua.TypeUInt32:
		return "UInt32"
	case ua.TypeInt64:
		return "Int64"
	case ua.TypeUInt64:
		return "UInt64"
	case ua.TypeFloat:
		return "Float"
	case ua.TypeDouble:
		return "Double"
	case ua.TypeString:
		return "String"
	case ua.TypeDateTime:
		return "DateTime"
	case ua.TypeByteString:
		return "ByteString"
	case ua.TypeNodeID:
		return "NodeId"
	case ua.TypeStatusCode:
		return "StatusCode"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// variantValue extracts the scalar Go value a Variant carries, for display.
func variantValue(v *ua.Variant) any {
	if v == nil {
		return nil
	}
	switch v.TypeID {
	case ua.TypeBoolean:
		return v.Bool
	case ua.TypeSByte, ua.TypeInt16, ua.TypeInt32, ua.TypeInt64, ua.TypeDateTime:
		return v.Int64
	case ua.TypeByte, ua.TypeUInt16, ua.TypeUInt32, ua.TypeUInt64, ua.TypeStatusCode:
		return v.Uint64
	case ua.TypeFloat, ua.TypeDouble:
		return v.Float64
	case ua.TypeString:
		return v.String
	case ua.TypeByteString:
		return v.Bytes
	case ua.TypeNodeID:
		return v.NodeID.Format()
	default:
		return v.Raw
	}
}
