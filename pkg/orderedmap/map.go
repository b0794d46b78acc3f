// Copyright 2024 The fieldtpl Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"reflect"
)

type Map struct {
	items []MapItem
}

type MapItem struct {
	Key   interface{}
	Value interface{}
}

func NewMap() *Map {
	return &Map{}
}

func NewMapWithItems(items []MapItem) *Map {
	return &Map{items}
}

func (m *Map) Set(key, value interface{}) {
	for i, item := range m.items {
		if m.isKeyEq(item.Key, key) {
			item.Value = value
			m.items[i] = item
			return
		}
	}
	m.items = append(m.items, MapItem{key, value})
}

func (m *Map) Get(key interface{}) (interface{}, bool) {
	for _, item := range m.items {
		if m.isKeyEq(item.Key, key) {
			return item.Value, true
		}
	}
	return nil, false
}

func (m *Map) Delete(key interface{}) bool {
	for i, item := range m.items {
		if m.isKeyEq(item.Key, key) {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Map) Len() int { return len(m.items) }

func (m *Map) Keys() (keys []interface{}) {
	m.Iterate(func(k, _ interface{}) {
		keys = append(keys, k)
	})
	return
}

func (m *Map) Iterate(iterFunc func(k, v interface{})) {
	for _, item := range m.items {
		iterFunc(item.Key, item.Value)
	}
}

func (m *Map) isKeyEq(key1, key2 interface{}) bool {
	return reflect.DeepEqual(key1, key2)
}
