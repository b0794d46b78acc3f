// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"fmt"
	"sort"
)

// Conversion moves values between ordered maps (used for values handed to
// templates) and the plain Go maps produced/consumed by encoding libraries.
type Conversion struct {
	Object interface{}
}

func (c Conversion) AsUnorderedStringMaps() interface{} {
	return c.asUnorderedStringMaps(c.Object)
}

func (c Conversion) asUnorderedStringMaps(object interface{}) interface{} {
	switch typedObj := object.(type) {
	case *Map:
		result := map[string]interface{}{}
		typedObj.Iterate(func(k, v interface{}) {
			if strK, ok := k.(string); ok {
				result[strK] = c.asUnorderedStringMaps(v)
			} else {
				panic(fmt.Sprintf("Expected key to be string, but was %T", k))
			}
		})
		return result

	case []interface{}:
		for i, item := range typedObj {
			typedObj[i] = c.asUnorderedStringMaps(item)
		}
		return typedObj

	default:
		return typedObj
	}
}

func (c Conversion) FromUnorderedMaps() interface{} {
	return c.fromUnorderedMaps(c.Object)
}

func (c Conversion) fromUnorderedMaps(object interface{}) interface{} {
	switch typedObj := object.(type) {
	case map[interface{}]interface{}:
		result := NewMap()
		for _, key := range c.sortedKeys(c.keysFromInterfaceMap(typedObj)) {
			result.Set(key, c.fromUnorderedMaps(typedObj[key]))
		}
		return result

	case map[string]interface{}:
		result := NewMap()
		for _, key := range c.sortedKeys(c.keysFromStringMap(typedObj)) {
			result.Set(key, c.fromUnorderedMaps(typedObj[key.(string)]))
		}
		return result

	case []interface{}:
		for i, item := range typedObj {
			typedObj[i] = c.fromUnorderedMaps(item)
		}
		return typedObj

	default:
		return typedObj
	}
}

func (c Conversion) keysFromInterfaceMap(m map[interface{}]interface{}) []interface{} {
	var keys []interface{}
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func (c Conversion) keysFromStringMap(m map[string]interface{}) []interface{} {
	var keys []interface{}
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// sortedKeys makes decode results deterministic even though the source
// encoding libraries hand us unordered Go maps.
func (c Conversion) sortedKeys(keys []interface{}) []interface{} {
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%v", keys[i]) < fmt.Sprintf("%v", keys[j])
	})
	return keys
}
